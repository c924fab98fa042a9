package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLog entries are append-only; nothing in this codebase updates or
// deletes them.
type ActivityLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Action    string             `bson:"action" json:"action"`
	Info      string             `bson:"info,omitempty" json:"info,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type ErrorLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Level     string             `bson:"level" json:"level"`
	Message   string             `bson:"message" json:"message"`
	Route     string             `bson:"route,omitempty" json:"route,omitempty"`
	Method    string             `bson:"method,omitempty" json:"method,omitempty"`
	Stack     string             `bson:"stack,omitempty" json:"stack,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
