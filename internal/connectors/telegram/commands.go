package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
)

// CommandHandler answers one bot command for userID.
type CommandHandler func(ctx context.Context, userID string) (*bot.SendMessageParams, error)

// CommandRegistry maps "/name" to its handler.
type CommandRegistry struct {
	handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]CommandHandler)}
}

// Register adds a command handler to the registry
func (r *CommandRegistry) Register(command string, handler CommandHandler) {
	r.handlers[command] = handler
}

// IsCommand checks if a message is a command
func (r *CommandRegistry) IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// Handle runs the handler for the command in text. Group chats address
// commands as "/name@botname"; the suffix is ignored.
func (r *CommandRegistry) Handle(ctx context.Context, userID, text string) (*bot.SendMessageParams, error) {
	command, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	command, _, _ = strings.Cut(command, "@")
	command = strings.ToLower(command)

	handler, ok := r.handlers[command]
	if !ok {
		return &bot.SendMessageParams{Text: "Unknown command: " + command + "\nTry /help."}, nil
	}
	return handler(ctx, userID)
}

// setupCommands registers the commands. Most of them replay a phrase the
// assistant already understands so the exchange lands in the chat history.
func (c *Connector) setupCommands() {
	c.commands = NewCommandRegistry()
	c.commands.Register("/start", c.phrase("hello"))
	c.commands.Register("/help", c.phrase("what can you do?"))
	c.commands.Register("/categories", c.phrase("what categories do you have?"))
	c.commands.Register("/reset", c.handleReset)
}

func (c *Connector) phrase(text string) CommandHandler {
	return func(ctx context.Context, userID string) (*bot.SendMessageParams, error) {
		return c.ask(ctx, userID, text)
	}
}

func (c *Connector) handleReset(ctx context.Context, userID string) (*bot.SendMessageParams, error) {
	if _, err := c.chat.StartSession(ctx, userID); err != nil {
		return nil, err
	}
	return &bot.SendMessageParams{Text: "Started a new conversation. What are you looking for?"}, nil
}
