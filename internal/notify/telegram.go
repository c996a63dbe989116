package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxMessageLength is Telegram's limit for one text message
const MaxMessageLength = 4096

// Notifier delivers a text report
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Sender is the part of *tgbotapi.BotAPI used to post messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts reports to a single chat
type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegramNotifier authorizes the bot token and targets chatID
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}
	n := NewTelegramNotifierWithSender(bot, chatID)
	n.logger.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")
	return n, nil
}

// NewTelegramNotifierWithSender wraps an existing sender
func NewTelegramNotifierWithSender(sender Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Int64("chat_id", chatID).Logger(),
	}
}

// Notify sends text, split into as many messages as needed
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	chunks := SplitMessage(text, MaxMessageLength)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, chunk)
		msg.DisableWebPagePreview = true
		if _, err := n.sender.Send(msg); err != nil {
			return fmt.Errorf("sending message %d/%d: %w", i+1, len(chunks), err)
		}
	}
	n.logger.Debug().Int("messages", len(chunks)).Msg("Report delivered")
	return nil
}

// SplitMessage breaks text into chunks of at most limit bytes, preferring line
// boundaries. A single line longer than limit is cut at rune boundaries.
func SplitMessage(text string, limit int) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			cut := runeBoundary(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}

		extra := len(line)
		if current.Len() > 0 {
			extra++
		}
		if current.Len()+extra > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}

func runeBoundary(s string, limit int) int {
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
