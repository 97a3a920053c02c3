package model

import "time"

// SignupEvent is published to the message queue after a successful
// registration and persisted by the audit worker.
type SignupEvent struct {
	UserID     string    `bson:"user_id" json:"user_id"`
	Username   string    `bson:"username" json:"username"`
	Email      string    `bson:"email" json:"email"`
	OccurredAt time.Time `bson:"occurred_at" json:"occurred_at"`
}
