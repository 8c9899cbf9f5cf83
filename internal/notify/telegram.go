// Optional Telegram notifications for newly discovered jobs
// A nil Notifier is valid and silently drops everything

package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobsearch-assistant/internal/scraper"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New returns (nil, nil) when no token is configured: notifications are an
// optional surface and their absence is not an error.
func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Notifier{api: api, chatID: chatID}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendJob posts one listing to the configured chat.
func (n *Notifier) SendJob(job scraper.Job) error {
	if n == nil {
		return nil
	}

	msgText := fmt.Sprintf("🏢 *%s*\n", escapeMarkdown(job.Company))
	msgText += fmt.Sprintf("💼 %s\n", escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("📍 %s\n", escapeMarkdown(job.Location))
	msgText += fmt.Sprintf("🔖 Source: %s\n", escapeMarkdown(job.Source))
	if job.URL != "" {
		msgText += fmt.Sprintf("🔗 [View Job](%s)\n", job.URL)
	}

	msg := tgbotapi.NewMessage(n.chatID, msgText)
	msg.ParseMode = "MarkdownV2"

	_, err := n.api.Send(msg)
	return err
}

// SendStatus posts a plain status line.
func (n *Notifier) SendStatus(message string) error {
	if n == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, "ℹ️ "+message)
	_, err := n.api.Send(msg)
	return err
}
