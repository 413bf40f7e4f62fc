package databases

// go generate: mockery --name LostReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foundit-campus/foundit-api/models"
)

const lostReportName = "lost_reports"

// LostReportDatabase contains the methods to use with the lost reports database
type LostReportDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.LostReport, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.LostReport, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, report models.LostReport, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type lostReportDatabase struct {
	db DatabaseHelper
}

// NewLostReportDatabase initializes a new instance of lost report database with the provided db connection
func NewLostReportDatabase(db DatabaseHelper) LostReportDatabase {
	return &lostReportDatabase{
		db: db,
	}
}

func (c *lostReportDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LostReport, error) {
	report := &models.LostReport{}
	err := c.db.Collection(lostReportName).FindOne(ctx, filter, opts...).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *lostReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LostReport, error) {
	var reports []models.LostReport
	cr, err := c.db.Collection(lostReportName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&reports)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *lostReportDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	count, err := c.db.Collection(lostReportName).CountDocuments(ctx, filter, opts...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *lostReportDatabase) InsertOne(ctx context.Context, report models.LostReport, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(lostReportName).InsertOne(ctx, report, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *lostReportDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	err := c.db.Collection(lostReportName).DeleteOne(ctx, filter, opts...)
	if err != nil {
		return err
	}
	return nil
}
