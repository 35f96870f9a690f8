package view

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/models"
)

var _ cart.View = (*Publisher)(nil)

// MessagePublisher is satisfied by *nats.Conn.
type MessagePublisher interface {
	Publish(subject string, data []byte) error
}

// Publisher emits a CartEvent on "<subject>.<action>" after every change so
// other services can follow the cart.
type Publisher struct {
	conn    MessagePublisher
	subject string
	session string
	logger  *zap.Logger
}

func NewPublisher(conn MessagePublisher, subject, session string, logger *zap.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: subject,
		session: session,
		logger:  logger,
	}
}

func (p *Publisher) Render(_ context.Context, snapshot models.Snapshot) {
	event := models.CartEvent{
		ID:            uuid.NewString(),
		Session:       p.session,
		Action:        snapshot.Action,
		Name:          snapshot.Name,
		Currency:      snapshot.Currency,
		Items:         snapshot.Items,
		Subtotal:      snapshot.Totals.Subtotal,
		SubtotalMinor: snapshot.Totals.SubtotalMinor(snapshot.Currency),
		ItemCount:     snapshot.Totals.ItemCount,
		CreatedAt:     time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal cart event", zap.String("event_id", event.ID), zap.Error(err))
		return
	}

	subject := p.subject + "." + string(snapshot.Action)
	if err = p.conn.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish cart event",
			zap.String("subject", subject),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return
	}

	p.logger.Debug("Cart event published", zap.String("subject", subject), zap.String("event_id", event.ID))
}
