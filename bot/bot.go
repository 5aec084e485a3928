package bot

import (
	"context"

	"restaurant/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Bot is the Telegram transport in front of a Shell.
type Bot struct {
	api   *tgbotapi.BotAPI
	shell *Shell
	log   logrus.FieldLogger
}

func New(cfg config.TelegramConfig, shell *Shell, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug
	return &Bot{api: api, shell: shell, log: log.WithField("bot", api.Self.UserName)}, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Home"},
		tgbotapi.BotCommand{Command: "menu", Description: "Browse the menu"},
		tgbotapi.BotCommand{Command: "cart", Description: "Show your cart"},
		tgbotapi.BotCommand{Command: "checkout", Description: "Place the order"},
		tgbotapi.BotCommand{Command: "login", Description: "Log in"},
		tgbotapi.BotCommand{Command: "signup", Description: "Create an account"},
		tgbotapi.BotCommand{Command: "logout", Description: "Log out"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is cancelled. Messages are handled one
// at a time.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.WithError(err).Warn("set bot commands")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	b.log.Info("bot started")
	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		msg := update.Message
		reply := b.shell.Handle(ctx, msg.Chat.ID, msg.Text)
		if reply.DeleteInput {
			b.deleteMessage(msg.Chat.ID, msg.MessageID)
		}
		b.send(msg.Chat.ID, reply.Text)
	}
	b.log.Info("bot stopped")
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithField("chat_id", chatID).WithError(err).Error("send failed")
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.WithField("chat_id", chatID).WithError(err).Warn("delete message failed")
	}
}
