// Package messenger connects the dialog agent to chat transports.
package messenger

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rcliao/tracker-agent/internal/dialog"
	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/menu"
)

// Handler consumes inbound chat events.
type Handler interface {
	Handle(ctx context.Context, u dialog.Update) error
}

// Telegram is a long-polling Telegram bot transport.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	timeout int

	mu   sync.Mutex
	last map[int64]int // chat id -> most recent outgoing message id
}

// NewTelegram authenticates with the bot token.
func NewTelegram(token string) (*Telegram, error) {
	if err := tgbotapi.SetLogger(botLogger{}); err != nil {
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	logger.Info("telegram authorized", "bot", bot.Self.UserName)
	return &Telegram{bot: bot, timeout: 60, last: make(map[int64]int)}, nil
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (t *Telegram) RegisterCommands(cmds []dialog.Command) error {
	botCmds := make([]tgbotapi.BotCommand, 0, len(cmds))
	for _, c := range cmds {
		botCmds = append(botCmds, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	if _, err := t.bot.Request(tgbotapi.NewSetMyCommands(botCmds...)); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// Run polls for updates and feeds them to h one at a time until ctx is done.
func (t *Telegram) Run(ctx context.Context, h Handler) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = t.timeout
	updates := t.bot.GetUpdatesChan(cfg)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			t.dispatch(ctx, h, upd)
		}
	}
}

func (t *Telegram) dispatch(ctx context.Context, h Handler, upd tgbotapi.Update) {
	var u dialog.Update
	switch {
	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if _, err := t.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			logger.Warn("answer callback", "error", err)
		}
		if cb.Message == nil || cb.From == nil {
			return
		}
		// Edits go to the message that carried the pressed button.
		t.remember(cb.Message.Chat.ID, cb.Message.MessageID)
		u = dialog.Update{User: fromUser(cb.From), ChatID: cb.Message.Chat.ID, Data: cb.Data}
	case upd.Message != nil && upd.Message.From != nil:
		m := upd.Message
		u = dialog.Update{User: fromUser(m.From), ChatID: m.Chat.ID, Text: m.Text}
	default:
		return
	}

	if err := h.Handle(ctx, u); err != nil {
		logger.Error("handle update", "update", upd.UpdateID, "user", u.User.ID, "error", err)
	}
}

func fromUser(u *tgbotapi.User) dialog.User {
	return dialog.User{ID: strconv.FormatInt(u.ID, 10), Name: u.FirstName}
}

func (t *Telegram) Send(_ context.Context, chatID int64, text string) error {
	return t.send(tgbotapi.NewMessage(chatID, text))
}

func (t *Telegram) SendChoices(_ context.Context, chatID int64, text string, grid menu.Grid) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard(grid)
	return t.send(msg)
}

// Edit rewrites the most recent outgoing message of the chat, or sends a new
// one when there is none.
func (t *Telegram) Edit(ctx context.Context, chatID int64, text string, grid menu.Grid) error {
	t.mu.Lock()
	msgID, ok := t.last[chatID]
	t.mu.Unlock()
	if !ok {
		if grid == nil {
			return t.Send(ctx, chatID, text)
		}
		return t.SendChoices(ctx, chatID, text, grid)
	}

	var edit tgbotapi.EditMessageTextConfig
	if grid == nil {
		edit = tgbotapi.NewEditMessageText(chatID, msgID, text)
	} else {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, keyboard(grid))
	}
	if _, err := t.bot.Request(edit); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (t *Telegram) send(c tgbotapi.MessageConfig) error {
	sent, err := t.bot.Send(c)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	t.remember(c.ChatID, sent.MessageID)
	return nil
}

func (t *Telegram) remember(chatID int64, msgID int) {
	t.mu.Lock()
	t.last[chatID] = msgID
	t.mu.Unlock()
}

// keyboard converts a grid to an inline keyboard.
func keyboard(grid menu.Grid) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(grid))
	for _, row := range grid {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token.Encode()))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btns...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// botLogger routes the client library's own output to the debug log.
type botLogger struct{}

func (botLogger) Println(v ...interface{}) {
	logger.Debug(fmt.Sprint(v...), "component", "telegram")
}

func (botLogger) Printf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf(format, v...), "component", "telegram")
}

var _ dialog.Messenger = (*Telegram)(nil)
