package telegram

import (
	"context"
	"strconv"
	"strings"
)

type cbHandler func(ctx context.Context, chatID int64, data string) error

// Exact-match callbacks
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"cmd:menu": func(ctx context.Context, id int64, _ string) error {
			return r.sendMainMenu(ctx, id, "Choose an action:")
		},
		"cmd:status": func(ctx context.Context, id int64, _ string) error {
			text, err := r.facade.HandleStatus(ctx, id)
			if err != nil {
				text = "Failed to get status."
			}
			return r.sendMainMenu(ctx, id, text)
		},
		"cmd:apps": func(ctx context.Context, id int64, _ string) error {
			return r.sendApplicationsMenu(ctx, id)
		},
	}
}

// Prefix-match callbacks
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []struct {
	Prefix string
	Fn     cbHandler
} {
	return []struct {
		Prefix string
		Fn     cbHandler
	}{
		{
			Prefix: "hist:",
			Fn: func(ctx context.Context, id int64, data string) error {
				appID, err := strconv.ParseInt(strings.TrimPrefix(data, "hist:"), 10, 64)
				if err != nil {
					return r.SendMessage(ctx, id, "Bad application id.")
				}
				text, err := r.facade.HandleHistory(ctx, appID)
				if err != nil {
					text = "Failed to load history."
				}
				return r.SendMessage(ctx, id, text)
			},
		},
		{
			Prefix: "cancel:",
			Fn: func(ctx context.Context, id int64, data string) error {
				appID, err := strconv.ParseInt(strings.TrimPrefix(data, "cancel:"), 10, 64)
				if err != nil {
					return r.SendMessage(ctx, id, "Bad application id.")
				}
				text, err := r.facade.HandleCancel(ctx, id, appID)
				if err != nil {
					text = "Failed to cancel the application."
				}
				// Refresh the list after cancelling
				if err := r.SendMessage(ctx, id, text); err != nil {
					return err
				}
				return r.sendApplicationsMenu(ctx, id)
			},
		},
	}
}
