package bot

import (
	"fmt"
	"os"
	"sync"
	"time"

	"valuebot/internal/logger"
	"valuebot/internal/service"
	"valuebot/internal/storage"

	"gopkg.in/telebot.v3"
)

// Bot wraps the Telegram transport: it delivers value-bet alerts to the
// configured chat and serves on-demand report commands. The pipeline only
// sees it through the service.Notifier interface.
type Bot struct {
	bot    *telebot.Bot
	mu     sync.Mutex
	chatID int64
}

// New creates the bot. The token comes from TELEGRAM_BOT_TOKEN.
func New(chatID int64) (*Bot, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token: botToken,
		Poller: &telebot.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	tb := &Bot{bot: b, chatID: chatID}
	tb.registerHandlers()
	return tb, nil
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", func(c telebot.Context) error {
		logger.Debug("command_start", fmt.Sprintf("chat_id=%d", c.Chat().ID))
		return c.Send("👋 Value bet scanner is running.\n\nUse /help to see available commands.")
	})

	b.bot.Handle("/help", func(c telebot.Context) error {
		logger.Debug("command_help", fmt.Sprintf("chat_id=%d", c.Chat().ID))
		helpText := "📚 Available Commands\n\n" +
			"/report [day|week|month|year|all] - ROI report for the window (default: week)\n" +
			"/open - List open (unsettled) bets\n" +
			"/help - Show this message"
		return c.Send(helpText)
	})

	b.bot.Handle("/report", func(c telebot.Context) error {
		keyword := c.Message().Payload
		logger.Debug("command_report", fmt.Sprintf("chat_id=%d window=%s", c.Chat().ID, keyword))

		report, err := service.GenerateReport(keyword, time.Now())
		if err != nil {
			return c.Send(fmt.Sprintf("⚠️ %v\n\nUsage: /report [day|week|month|year|all]", err))
		}
		return c.Send(report)
	})

	b.bot.Handle("/open", func(c telebot.Context) error {
		logger.Debug("command_open", fmt.Sprintf("chat_id=%d", c.Chat().ID))

		bets, err := storage.GetOpenBets("")
		if err != nil {
			logger.Error("command_open_failed", err)
			return c.Send("Error loading open bets. Please try again.")
		}
		return c.Send(service.FormatOpenBets(bets))
	})
}

// Start begins long polling. Blocks, so run in a goroutine.
func (b *Bot) Start() {
	logger.Debug("bot_started", fmt.Sprintf("chat_id=%d", b.chatID))
	b.bot.Start()
}

// Stop stops long polling.
func (b *Bot) Stop() {
	b.bot.Stop()
}

// Notify sends one message to the configured chat. Implements
// service.Notifier.
func (b *Bot) Notify(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.bot.Send(telebot.ChatID(b.chatID), text)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
