package databases

// go generate: mockery --name ModeratorDatabase

import (
	"context"

	"github.com/jackle3/moderation-api/models"
)

const moderatorName = "moderators"

// ModeratorDatabase contains the methods to use with the moderator database
type ModeratorDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Moderator, error)
}

type moderatorDatabase struct {
	db DatabaseHelper
}

// NewModeratorDatabase initializes a new instance of moderator database with
// the provided db connection
func NewModeratorDatabase(db DatabaseHelper) ModeratorDatabase {
	return &moderatorDatabase{
		db: db,
	}
}

func (c *moderatorDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Moderator, error) {
	moderator := &models.Moderator{}
	err := c.db.Collection(moderatorName).FindOne(ctx, filter).Decode(&moderator)
	if err != nil {
		return nil, err
	}
	return moderator, nil
}
