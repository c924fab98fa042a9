package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gandalf/internal/domain"
	"gandalf/internal/infrastructure/mongodb"
)

const writeTimeout = 5 * time.Second

// Recorder appends activity and error entries. Writes are fire-and-forget:
// a failed audit write is logged and swallowed, it never aborts the
// operation that triggered it.
type Recorder struct {
	activities *mongo.Collection
	errors     *mongo.Collection
	logger     *zap.Logger
}

func NewRecorder(client *mongo.Client, dbName string, logger *zap.Logger) *Recorder {
	return &Recorder{
		activities: mongodb.GetCollection(client, dbName, mongodb.CollectionActivityLogs),
		errors:     mongodb.GetCollection(client, dbName, mongodb.CollectionErrorLogs),
		logger:     logger,
	}
}

func (r *Recorder) Record(ctx context.Context, userID primitive.ObjectID, action, info string) {
	entry := domain.ActivityLog{
		UserID:    userID,
		Action:    action,
		Info:      info,
		CreatedAt: time.Now().UTC(),
	}

	// Detached from the request context so a client abort does not lose the
	// audit entry for a write that already committed.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if _, err := r.activities.InsertOne(writeCtx, entry); err != nil {
		r.logger.Warn("activity log write failed",
			zap.String("action", action),
			zap.Error(err))
	}
}

func (r *Recorder) RecordError(ctx context.Context, level, message, route, method, stack string) {
	entry := domain.ErrorLog{
		Level:     level,
		Message:   message,
		Route:     route,
		Method:    method,
		Stack:     stack,
		CreatedAt: time.Now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if _, err := r.errors.InsertOne(writeCtx, entry); err != nil {
		r.logger.Warn("error log write failed", zap.Error(err))
	}
}
