package databases

// go generate: mockery --name CreditEventDatabase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/foundit-campus/foundit-api/models"
)

const creditEventName = "credit_events"

// ErrDuplicateEvent is returned when a credit event with the same key has
// already been recorded. An earlier attempt logged the event; whether its
// points landed is settled against the account's applied-event markers.
var ErrDuplicateEvent = errors.New("credit event already recorded")

// CreditEventDatabase contains the methods to use with the credit events database
type CreditEventDatabase interface {
	InsertOne(ctx context.Context, event models.CreditEvent) error
	Find(ctx context.Context, filter interface{}) ([]models.CreditEvent, error)
}

type creditEventDatabase struct {
	db DatabaseHelper
}

// NewCreditEventDatabase initializes a new instance of credit event database with the provided db connection
func NewCreditEventDatabase(db DatabaseHelper) CreditEventDatabase {
	return &creditEventDatabase{
		db: db,
	}
}

// InsertOne records a credit event. The event key is the document _id, so
// recording the same event twice trips the unique index and surfaces as
// ErrDuplicateEvent.
func (c *creditEventDatabase) InsertOne(ctx context.Context, event models.CreditEvent) error {
	_, err := c.db.Collection(creditEventName).InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEvent
	}
	return err
}

func (c *creditEventDatabase) Find(ctx context.Context, filter interface{}) ([]models.CreditEvent, error) {
	var events []models.CreditEvent
	cr, err := c.db.Collection(creditEventName).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&events)
	if err != nil {
		return nil, err
	}
	return events, nil
}
