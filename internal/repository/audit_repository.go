package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"userhub/internal/model"
)

const signupEventsCollection = "signup_events"

type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(signupEventsCollection)}
}

func (r *AuditRepository) RecordSignup(ctx context.Context, event *model.SignupEvent) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert signup event failed: %w", err)
	}
	return nil
}
