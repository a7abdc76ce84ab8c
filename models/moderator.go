package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Moderator is an account allowed to act on escalated reports
type Moderator struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Active    bool               `bson:"active" json:"active"`
	Roles     []string           `bson:"roles,omitempty" json:"roles,omitempty"`
	CreatedAt primitive.DateTime `bson:"createdAt" json:"createdAt"`
}
