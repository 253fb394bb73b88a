package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(botCommandsTotal, botSendFailuresTotal) }

var botCommandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Total bot commands received, labeled by command and result.",
	},
	[]string{"command", "result"},
)

var botSendFailuresTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "bot_send_failures_total",
		Help: "Total failures sending messages to Telegram.",
	},
)

func IncBotCommand(command, result string) {
	botCommandsTotal.WithLabelValues(norm(command), norm(result)).Inc()
}

func IncBotSendFailure() { botSendFailuresTotal.Inc() }
