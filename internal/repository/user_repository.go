package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"userhub/internal/model"
)

const (
	usersCollection = "users"

	usernameIndex = "username_1"
	emailIndex    = "email_1"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUserNotFound  = errors.New("user not found")
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes on username and email. Uniqueness
// is enforced by the store itself, so two concurrent registrations for the
// same username resolve to one insert and one duplicate-key error.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usernameIndex),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndex),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes failed: %w", err)
	}
	return nil
}

// Create inserts the user and fills in its assigned id. Duplicate username or
// email surfaces as ErrUsernameTaken or ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return classifyDuplicate(err)
		}
		return fmt.Errorf("insert user failed: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var user model.User
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// ProfileChanges is a partial update; nil fields are left unchanged.
type ProfileChanges struct {
	Email *string
	Phone *string
	DOB   *time.Time
}

// UpdateProfile applies the supplied subset of mutable fields. Username,
// password hash, and id are not reachable through this path.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.Phone != nil {
		set["phone"] = *changes.Phone
	}
	if changes.DOB != nil {
		set["dob"] = *changes.DOB
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return classifyDuplicate(err)
		}
		return fmt.Errorf("update profile failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// classifyDuplicate maps a duplicate-key error to the offending field by the
// index name embedded in the server message.
func classifyDuplicate(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, usernameIndex):
		return ErrUsernameTaken
	case strings.Contains(msg, emailIndex):
		return ErrEmailTaken
	default:
		return fmt.Errorf("duplicate key on user insert: %w", err)
	}
}
