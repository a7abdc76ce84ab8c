package databases

// go generate: mockery --name ReportArchiveDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jackle3/moderation-api/models"
)

const reportArchiveName = "report_archive"

// ReportArchiveDatabase contains the methods to use with the report archive.
// Closed report sessions are written here for audit; the collection is
// insert-only from the engine's point of view.
type ReportArchiveDatabase interface {
	InsertOne(ctx context.Context, report models.ReportSession, opts ...*options.InsertOneOptions) error
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ReportSession, error)
	FindByCommunity(ctx context.Context, communityID string, page, limit int) ([]models.ReportSession, error)
}

type reportArchiveDatabase struct {
	db DatabaseHelper
}

// NewReportArchiveDatabase initializes a new instance of report archive
// database with the provided db connection
func NewReportArchiveDatabase(db DatabaseHelper) ReportArchiveDatabase {
	return &reportArchiveDatabase{
		db: db,
	}
}

func (c *reportArchiveDatabase) InsertOne(ctx context.Context, report models.ReportSession, opts ...*options.InsertOneOptions) error {
	return c.db.Collection(reportArchiveName).InsertOne(ctx, report, opts...)
}

func (c *reportArchiveDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ReportSession, error) {
	cursor, err := c.db.Collection(reportArchiveName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	reports := []models.ReportSession{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindByCommunity pages through a community's archived reports.
func (c *reportArchiveDatabase) FindByCommunity(ctx context.Context, communityID string, page, limit int) ([]models.ReportSession, error) {
	if limit <= 0 {
		limit = 25
	}
	if page <= 0 {
		page = 1
	}
	filter := bson.M{"target.communityId": communityID}
	return c.Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
}
