package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

type TelegramConfig struct {
	Token  string `mapstructure:"token" yaml:"token"`
	ChatID int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

func (c TelegramConfig) Enabled() bool { return c.Token != "" && c.ChatID != 0 }

// Command отвечает текстом на команду из чата.
type Command func(ctx context.Context) string

// Telegram — пассивный нотифайер + ответы на зарегистрированные команды (/status и т.п.).
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	log    *zap.Logger

	mu       sync.RWMutex
	commands map[string]Command
}

func NewTelegram(cfg TelegramConfig, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Telegram{
		bot:      b,
		chatID:   cfg.ChatID,
		log:      log.Named("telegram"),
		commands: make(map[string]Command),
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		t.log.Warn("send failed", zap.Error(err))
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Handle регистрирует команду без слэша: Handle("status", ...).
func (t *Telegram) Handle(name string, fn Command) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commands[name] = fn
}

func (t *Telegram) command(name string) (Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.commands[name]
	return fn, ok
}

// Start: long-polling сообщений, команды принимаем только из своего чата.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}
				if fn, ok := t.command(upd.Message.Command()); ok {
					go t.Send(fn(ctx))
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t == nil || t.bot == nil {
		return
	}
	t.bot.StopReceivingUpdates()
}

// Stdout — консольный вывод, когда Telegram не настроен.
type Stdout struct {
	mu  sync.Mutex
	out io.Writer
}

func NewStdout() *Stdout { return &Stdout{out: os.Stdout} }

func NewWriter(w io.Writer) *Stdout { return &Stdout{out: w} }

func (s *Stdout) Send(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.out, msg)
}

func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
