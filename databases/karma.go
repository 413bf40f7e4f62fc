package databases

// go generate: mockery --name KarmaDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foundit-campus/foundit-api/models"
)

const karmaName = "karma_accounts"

// KarmaDatabase contains the methods to use with the karma accounts database
type KarmaDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.KarmaAccount, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.KarmaAccount, error)
	IncrementPoints(ctx context.Context, userID string, delta int64) (*models.KarmaAccount, error)
	ApplyCredit(ctx context.Context, userID, eventID string, delta int64) (*models.KarmaAccount, bool, error)
}

type karmaDatabase struct {
	db DatabaseHelper
}

// NewKarmaDatabase initializes a new instance of karma database with the provided db connection
func NewKarmaDatabase(db DatabaseHelper) KarmaDatabase {
	return &karmaDatabase{
		db: db,
	}
}

func (c *karmaDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.KarmaAccount, error) {
	account := &models.KarmaAccount{}
	err := c.db.Collection(karmaName).FindOne(ctx, filter, opts...).Decode(&account)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (c *karmaDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.KarmaAccount, error) {
	var accounts []models.KarmaAccount
	cr, err := c.db.Collection(karmaName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&accounts)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// IncrementPoints applies an atomic $inc against whatever total the store
// currently holds, creating the account with zero points on first touch.
// Never read-modify-write here; two concurrent credits to the same user must
// both land.
func (c *karmaDatabase) IncrementPoints(ctx context.Context, userID string, delta int64) (*models.KarmaAccount, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$inc":         bson.M{"points": delta},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	account := &models.KarmaAccount{}
	err := c.db.Collection(karmaName).FindOneAndUpdate(ctx, filter, update, opts).Decode(&account)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ApplyCredit adds delta points to the user's account unless the event was
// already applied. The event ID is pushed into appliedEvents by the same
// single-document update that carries the $inc, so a crashed workflow can be
// retried under the same key any number of times and the points land exactly
// once. No upsert here: the caller must ensure the account exists first, or
// the $ne filter would mint duplicate account documents.
//
// Returns the account after the update and whether this call applied the
// delta.
func (c *karmaDatabase) ApplyCredit(ctx context.Context, userID, eventID string, delta int64) (*models.KarmaAccount, bool, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	filter := bson.M{
		"userId":        userID,
		"appliedEvents": bson.M{"$ne": eventID},
	}
	update := bson.M{
		"$inc":  bson.M{"points": delta},
		"$push": bson.M{"appliedEvents": eventID},
		"$set":  bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	account := &models.KarmaAccount{}
	err := c.db.Collection(karmaName).FindOneAndUpdate(ctx, filter, update, opts).Decode(&account)
	if err == nil {
		return account, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	// The filter missed, meaning the event ID is already in appliedEvents.
	// Read back the settled total.
	account, err = c.FindOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, false, err
	}
	return account, false, nil
}
