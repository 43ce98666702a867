package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

const (
	// maxMessageLength is the Telegram limit for a single text message.
	maxMessageLength = 4096
	maxListed        = 6
	errorReply       = "Sorry, I encountered an error processing your message."
)

// ChatService is the part of chat.Service the connector uses.
type ChatService interface {
	Query(ctx context.Context, userID, sessionID, message string) (chat.QueryResult, error)
	LatestSession(ctx context.Context, userID string) (chat.Session, error)
	StartSession(ctx context.Context, userID string) (chat.Session, error)
}

// Sender delivers messages to Telegram. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Config holds configuration for the Telegram connector
type Config struct {
	BotToken     string // Bot token from @BotFather
	Debug        bool
	ReplyTimeout time.Duration
}

// Connector long-polls Telegram and answers text messages through the chat service.
type Connector struct {
	bot          *bot.Bot
	sender       Sender
	chat         ChatService
	commands     *CommandRegistry
	logger       logger.Logger
	replyTimeout time.Duration
	running      atomic.Bool
}

// NewConnector creates the bot client. Updates are not received until Start.
func NewConnector(cfg Config, svc ChatService, log logger.Logger) (*Connector, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("bot token is required")
	}
	if svc == nil {
		return nil, errors.New("chat service is required")
	}

	c := newConnector(nil, svc, cfg.ReplyTimeout, log)

	opts := []bot.Option{bot.WithDefaultHandler(c.handleUpdate)}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	c.bot = b
	c.sender = b

	c.logger.Info("Telegram bot initialized")
	return c, nil
}

func newConnector(sender Sender, svc ChatService, replyTimeout time.Duration, log logger.Logger) *Connector {
	if replyTimeout <= 0 {
		replyTimeout = 15 * time.Second
	}
	c := &Connector{
		sender:       sender,
		chat:         svc,
		logger:       log.WithFields(logger.StringField("connector", "telegram")),
		replyTimeout: replyTimeout,
	}
	c.setupCommands()
	return c
}

// Start polls for updates until ctx is cancelled.
func (c *Connector) Start(ctx context.Context) error {
	c.logger.Info("Starting Telegram bot polling")
	c.running.Store(true)
	defer c.running.Store(false)

	c.bot.Start(ctx)

	c.logger.Info("Telegram bot polling stopped")
	return nil
}

// Ready reports whether the connector is polling.
func (c *Connector) Ready() error {
	if !c.running.Load() {
		return errors.New("telegram connector is not polling")
	}
	return nil
}

func (c *Connector) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	c.handle(ctx, update)
}

func (c *Connector) handle(ctx context.Context, update *models.Update) {
	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.replyTimeout)
	defer cancel()

	userID := UserID(msg.Chat.ID)
	log := c.logger.WithFields(logger.StringField("user_id", userID))

	var (
		params *bot.SendMessageParams
		err    error
	)
	if c.commands.IsCommand(msg.Text) {
		params, err = c.commands.Handle(ctx, userID, msg.Text)
	} else {
		params, err = c.ask(ctx, userID, msg.Text)
	}
	if err != nil {
		log.Error("Failed to answer Telegram message", logger.ErrorField(err))
		params = &bot.SendMessageParams{Text: errorReply}
	}
	if params == nil {
		return
	}

	params.ChatID = msg.Chat.ID
	if _, err := c.sender.SendMessage(ctx, params); err != nil {
		log.Error("Failed to send Telegram message", logger.ErrorField(err))
	}
}

// ask sends text to the user's most recent session.
func (c *Connector) ask(ctx context.Context, userID, text string) (*bot.SendMessageParams, error) {
	session, err := c.chat.LatestSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	result, err := c.chat.Query(ctx, userID, session.ID, text)
	if err != nil {
		return nil, err
	}
	return render(result), nil
}

// UserID is the chat user identity of a Telegram chat.
func UserID(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}

// render formats a reply as plain text. Suggestions become a one-time
// reply keyboard.
func render(result chat.QueryResult) *bot.SendMessageParams {
	var b strings.Builder
	b.WriteString(result.Message)

	if len(result.Products) > 0 {
		b.WriteString("\n")
		for i, p := range result.Products {
			if i == maxListed {
				break
			}
			fmt.Fprintf(&b, "\n• %s - $%s", p.Title, strconv.FormatFloat(p.Price, 'f', 2, 64))
			if p.Brand != "" {
				fmt.Fprintf(&b, " (%s)", p.Brand)
			}
		}
	}

	params := &bot.SendMessageParams{Text: truncate(b.String(), maxMessageLength)}
	if len(result.Suggestions) == 0 {
		params.ReplyMarkup = &models.ReplyKeyboardRemove{RemoveKeyboard: true}
		return params
	}

	keyboard := make([][]models.KeyboardButton, 0, (len(result.Suggestions)+1)/2)
	for i := 0; i < len(result.Suggestions); i += 2 {
		row := []models.KeyboardButton{{Text: result.Suggestions[i]}}
		if i+1 < len(result.Suggestions) {
			row = append(row, models.KeyboardButton{Text: result.Suggestions[i+1]})
		}
		keyboard = append(keyboard, row)
	}
	params.ReplyMarkup = &models.ReplyKeyboardMarkup{
		Keyboard:        keyboard,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
	return params
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	const ellipsis = "…"
	cut := n - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
