package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
)

var ErrNATSNotConfigured = errors.New("nats is not configured")

type CommandHandler func(context.Context, *models.CartCommand) error

// Subscriber is satisfied by *nats.Conn.
type Subscriber interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// CommandManager routes cart commands received over NATS to their handlers.
type CommandManager struct {
	natsConn Subscriber
	subject  string
	handlers map[enum.CartAction]CommandHandler
	logger   *zap.Logger
}

// NewCommandManager takes a nil natsConn when NATS is not configured.
func NewCommandManager(natsConn Subscriber, subject string, logger *zap.Logger) *CommandManager {
	return &CommandManager{
		natsConn: natsConn,
		subject:  subject,
		handlers: make(map[enum.CartAction]CommandHandler),
		logger:   logger,
	}
}

func (cm *CommandManager) RegisterHandler(action enum.CartAction, handler CommandHandler) {
	cm.handlers[action] = handler
}

func (cm *CommandManager) GetHandler(action enum.CartAction) (CommandHandler, bool) {
	handler, exists := cm.handlers[action]
	return handler, exists
}

// SubscribeToCommands listens on "<subject>.>" and queues every valid
// command on wp. Malformed messages are logged and dropped.
func (cm *CommandManager) SubscribeToCommands(wp *WorkerPool) (*nats.Subscription, error) {
	if cm.natsConn == nil {
		return nil, ErrNATSNotConfigured
	}

	return cm.natsConn.Subscribe(cm.subject+".>", func(msg *nats.Msg) {
		cmd, err := decodeCommand(msg.Data)
		if err != nil {
			cm.logger.Error("Dropping cart command", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}

		if err = wp.Submit(context.Background(), cmd); err != nil {
			cm.logger.Warn("Cart command not queued", zap.String("command_id", cmd.ID), zap.Error(err))
		}
	})
}

func decodeCommand(data []byte) (*models.CartCommand, error) {
	var cmd models.CartCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, fmt.Errorf("failed to unmarshal command: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	return &cmd, nil
}

func (a *App) registerCommandHandlers() {
	commandHandlers := map[enum.CartAction]CommandHandler{
		enum.CartActionAdd:         a.handleAddItem,
		enum.CartActionRemove:      a.handleRemoveItem,
		enum.CartActionSetQuantity: a.handleSetQuantity,
	}

	for action, handler := range commandHandlers {
		a.commands.RegisterHandler(action, handler)
	}
}

func (a *App) handleAddItem(ctx context.Context, cmd *models.CartCommand) error {
	return a.store.AddItem(ctx, cmd.Name, cmd.UnitPrice, cmd.ImageRef)
}

func (a *App) handleRemoveItem(ctx context.Context, cmd *models.CartCommand) error {
	return a.store.RemoveItem(ctx, cmd.Name)
}

func (a *App) handleSetQuantity(ctx context.Context, cmd *models.CartCommand) error {
	return a.store.SetQuantity(ctx, cmd.Name, *cmd.Quantity)
}

// ProcessCommand applies cmd to the cart once; replays of an id already seen
// are skipped.
func (a *App) ProcessCommand(ctx context.Context, cmd *models.CartCommand) error {
	handler, exists := a.commands.GetHandler(cmd.Action)
	if !exists {
		return fmt.Errorf("no handler registered for command action: %s", cmd.Action)
	}

	fresh, err := a.processed.MarkProcessed(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if !fresh {
		a.logger.Info("Command already processed", zap.String("command_id", cmd.ID))
		return nil
	}

	if err = handler(ctx, cmd); err != nil {
		a.logger.Error("Failed to apply cart command",
			zap.String("command_id", cmd.ID),
			zap.String("action", string(cmd.Action)),
			zap.Error(err))
		return err
	}

	a.logger.Info("Cart command applied",
		zap.String("command_id", cmd.ID),
		zap.String("action", string(cmd.Action)),
		zap.String("name", cmd.Name))
	return nil
}
