package notify

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

// Manager fans a notification out to every configured provider.
type Manager struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewManager builds a Manager from viper configuration. Providers that
// are disabled or missing credentials are skipped with a warning.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{logger: logger}

	if viper.GetBool("notifications.slack.enabled") {
		botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
		if botToken == "" {
			logger.Warn("SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		} else {
			channel := viper.GetString("notifications.slack.channel")
			m.notifiers = append(m.notifiers, NewSlackNotifier(botToken, channel))
		}
	}

	if viper.GetBool("notifications.discord.enabled") {
		webhook := os.Getenv("DISCORD_WEBHOOK_URL")
		if webhook == "" {
			webhook = viper.GetString("notifications.discord.webhook_url")
		}
		if webhook == "" {
			logger.Warn("discord webhook URL not set, discord notifications disabled")
		} else {
			m.notifiers = append(m.notifiers, NewDiscordNotifier(webhook))
		}
	}

	return m
}

// Add appends a notifier; used by tests and custom wiring.
func (m *Manager) Add(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Enabled reports whether at least one provider is configured.
func (m *Manager) Enabled() bool {
	return len(m.notifiers) > 0
}

// Notify delivers the message to all providers, best effort. Failures
// are logged, not returned; a benchmark result must not be lost because
// a webhook was down.
func (m *Manager) Notify(ctx context.Context, message string) error {
	logger := m.logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, message); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}
	return nil
}
