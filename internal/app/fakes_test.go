package app_test

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"userhub/internal/model"
	"userhub/internal/repository"
)

// fakeStore enforces the same uniqueness contract as the Mongo repository,
// atomically under a mutex, so concurrent-registration behavior is testable
// without a database.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*model.User)}
}

func (f *fakeStore) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}

	user.ID = bson.NewObjectID()
	stored := *user
	f.users[user.ID.Hex()] = &stored
	return nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id string, changes repository.ProfileChanges) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if changes.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && other.Email == *changes.Email {
				return repository.ErrEmailTaken
			}
		}
		user.Email = *changes.Email
	}
	if changes.Phone != nil {
		phone := *changes.Phone
		user.Phone = &phone
	}
	if changes.DOB != nil {
		dob := *changes.DOB
		user.DOB = &dob
	}
	return nil
}

type fakeCache struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func newFakeCache() *fakeCache {
	return &fakeCache{profiles: make(map[string]*model.Profile)}
}

func (f *fakeCache) GetProfile(_ context.Context, userID string) (*model.Profile, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.profiles[userID]
	if !ok {
		return nil, false, nil
	}
	copied := *profile
	return &copied, true, nil
}

func (f *fakeCache) SetProfile(_ context.Context, userID string, profile *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *profile
	f.profiles[userID] = &copied
	return nil
}

func (f *fakeCache) DeleteProfile(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.profiles, userID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.SignupEvent
}

func (f *fakePublisher) PublishSignup(_ context.Context, event model.SignupEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []model.SignupEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]model.SignupEvent(nil), f.events...)
}
