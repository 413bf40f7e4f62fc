package databases

// go generate: mockery --name ItemDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foundit-campus/foundit-api/models"
)

const itemName = "items"

// ItemDatabase contains the methods to use with the found items database
type ItemDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.FoundItem, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.FoundItem, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, item models.FoundItem, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
}

type itemDatabase struct {
	db DatabaseHelper
}

// NewItemDatabase initializes a new instance of item database with the provided db connection
func NewItemDatabase(db DatabaseHelper) ItemDatabase {
	return &itemDatabase{
		db: db,
	}
}

func (c *itemDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.FoundItem, error) {
	item := &models.FoundItem{}
	err := c.db.Collection(itemName).FindOne(ctx, filter, opts...).Decode(&item)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (c *itemDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.FoundItem, error) {
	var items []models.FoundItem
	cr, err := c.db.Collection(itemName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *itemDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(itemName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *itemDatabase) InsertOne(ctx context.Context, item models.FoundItem, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(itemName).InsertOne(ctx, item, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *itemDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(itemName).UpdateOne(ctx, filter, update, opts...)
	return err
}
