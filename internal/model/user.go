package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Phone        *string       `bson:"phone,omitempty" json:"phone"`
	DOB          *time.Time    `bson:"dob,omitempty" json:"dob"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// Profile is the view of a user returned by the profile endpoints and held in
// the profile cache. It never carries the password hash.
type Profile struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	DOB      *string `json:"dob"`
}
