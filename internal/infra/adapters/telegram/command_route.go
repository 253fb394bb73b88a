package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-job-applier/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":   r.handleStartCommand,
		"profile": r.handleProfileCommand,
		"apply":   r.handleApplyCommand,
		"status":  r.handleStatusCommand,
		"history": r.handleHistoryCommand,
		"cancel":  r.handleCancelCommand,
		"otp":     r.handleOTPCommand,
		"draft":   r.handleDraftCommand,
		"help":    r.handleHelpCommand,

		"stats": r.adminOnly(r.handleStatsCommand),
	}
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			metrics.IncBotCommand("/"+message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, "You are not allowed to use this command.")
		}
		return next(ctx, message)
	}
}

// handleStartCommand handles the /start command.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	// Not every Telegram account has a public @username.
	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
	}
	text, err := r.facade.HandleStart(ctx, message.From.ID, username)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, "Failed to initialize your account. Try again.")
	}
	return r.sendMainMenu(ctx, message.Chat.ID, text)
}

// handleProfileCommand shows or replaces the stored profile document.
func (r *RealTelegramBotAdapter) handleProfileCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleProfile(ctx, message.From.ID, message.CommandArguments())
	if err != nil {
		text = "Failed to handle your profile. Try again."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleApplyCommand starts an application for the given job URL.
func (r *RealTelegramBotAdapter) handleApplyCommand(ctx context.Context, message *tgbotapi.Message) error {
	jobURL := strings.TrimSpace(message.CommandArguments())
	if jobURL == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /apply <job url>")
	}
	text, err := r.facade.HandleApply(ctx, message.From.ID, jobURL)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, "Failed to start the application. Try again.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleStatusCommand handles the /status command.
func (r *RealTelegramBotAdapter) handleStatusCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := r.facade.HandleStatus(ctx, message.From.ID)
	if err != nil {
		text = "Failed to get status."
	}
	return r.sendMainMenu(ctx, message.Chat.ID, text)
}

// handleHistoryCommand shows the audit trail of one application.
func (r *RealTelegramBotAdapter) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.sendApplicationsMenu(ctx, message.Chat.ID)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /history <application id>")
	}
	text, err := r.facade.HandleHistory(ctx, id)
	if err != nil {
		text = "Failed to load history."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleCancelCommand cancels an application by id.
func (r *RealTelegramBotAdapter) handleCancelCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /cancel <application id>")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /cancel <application id>")
	}
	text, err := r.facade.HandleCancel(ctx, message.From.ID, id)
	if err != nil {
		text = "Failed to cancel the application."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleOTPCommand forwards a one-time code to the waiting application.
func (r *RealTelegramBotAdapter) handleOTPCommand(ctx context.Context, message *tgbotapi.Message) error {
	code := strings.TrimSpace(message.CommandArguments())
	if code == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /otp <code>")
	}
	text, err := r.facade.HandleOTP(ctx, message.From.ID, code)
	if err != nil {
		text = "Failed to submit the code. Try again."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleDraftCommand asks the answer generator to draft a reply to a form question.
func (r *RealTelegramBotAdapter) handleDraftCommand(ctx context.Context, message *tgbotapi.Message) error {
	question := strings.TrimSpace(message.CommandArguments())
	if question == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /draft <form question>")
	}
	text, err := r.facade.HandleDraft(ctx, message.From.ID, question)
	if err != nil {
		text = "Failed to draft an answer."
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// handleHelpCommand provides a list of commands.
func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply := "Commands:\n" +
		"/start - init your account\n" +
		"/profile [json] - show or replace your profile\n" +
		"/apply <job url> - start an application\n" +
		"/status - your recent applications\n" +
		"/history <id> - audit trail of one application\n" +
		"/cancel <id> - cancel an application\n" +
		"/otp <code> - submit a one-time code\n" +
		"/draft <question> - suggest an answer to a form question"
	return r.SendMessage(ctx, message.Chat.ID, reply)
}

// handleStatsCommand reports application counts to admins.
func (r *RealTelegramBotAdapter) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) error {
	user, err := r.facade.UserUC.GetByTelegramID(ctx, message.From.ID)
	if err != nil || user == nil {
		return r.SendMessage(ctx, message.Chat.ID, "No user found. Try /start first.")
	}
	apps, err := r.facade.AppUC.ListByUser(ctx, user.ID, 100)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, "Failed to load stats.")
	}
	counts := map[string]int{}
	for _, a := range apps {
		counts[string(a.Status)]++
	}
	var b strings.Builder
	b.WriteString("Applications by status:\n")
	for status, n := range counts {
		fmt.Fprintf(&b, "%s: %d\n", status, n)
	}
	return r.SendMessage(ctx, message.Chat.ID, b.String())
}
