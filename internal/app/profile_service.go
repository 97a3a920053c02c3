package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"userhub/internal/model"
	"userhub/internal/repository"
)

// dobLayout is the accepted wire format for dates of birth.
const dobLayout = "2006-01-02"

// ProfileCache holds rendered profiles between reads. May be absent (nil).
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, bool, error)
	SetProfile(ctx context.Context, userID string, profile *model.Profile) error
	DeleteProfile(ctx context.Context, userID string) error
}

type ProfileService struct {
	store UserStore
	cache ProfileCache
}

type UpdateProfileInput struct {
	Email *string
	Phone *string
	DOB   *string
}

func NewProfileService(store UserStore, cache ProfileCache) *ProfileService {
	return &ProfileService{
		store: store,
		cache: cache,
	}
}

// Fetch returns the profile for an identity the auth gate already resolved.
// An id that no longer resolves yields ErrUserGone; callers surface it the
// same way as a bad token so stale tokens leak nothing.
func (s *ProfileService) Fetch(ctx context.Context, userID string) (*model.Profile, error) {
	if s.cache != nil {
		profile, hit, err := s.cache.GetProfile(ctx, userID)
		if err != nil {
			log.Printf("profile cache read failed: %v", err)
		} else if hit {
			return profile, nil
		}
	}

	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserGone
	}

	profile := profileFromUser(user)
	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, userID, profile); err != nil {
			log.Printf("profile cache write failed: %v", err)
		}
	}
	return profile, nil
}

// Update applies the supplied subset of {email, phone, dob}. Omitted fields
// stay untouched; username and password are not reachable through this path.
func (s *ProfileService) Update(ctx context.Context, userID string, input UpdateProfileInput) error {
	changes, err := validateChanges(input)
	if err != nil {
		return err
	}

	if err := s.store.UpdateProfile(ctx, userID, changes); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrUserGone
		case errors.Is(err, repository.ErrEmailTaken):
			return ErrEmailExists
		default:
			return err
		}
	}

	if s.cache != nil {
		if err := s.cache.DeleteProfile(ctx, userID); err != nil {
			log.Printf("profile cache invalidate failed: %v", err)
		}
	}
	return nil
}

func validateChanges(input UpdateProfileInput) (repository.ProfileChanges, error) {
	var changes repository.ProfileChanges

	if input.Email == nil && input.Phone == nil && input.DOB == nil {
		return changes, ErrInvalidInput
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !emailPattern.MatchString(email) {
			return changes, ErrInvalidInput
		}
		changes.Email = &email
	}

	if input.Phone != nil {
		// Free-form; the source system never validated phone numbers either.
		phone := strings.TrimSpace(*input.Phone)
		changes.Phone = &phone
	}

	if input.DOB != nil {
		dob, err := time.Parse(dobLayout, *input.DOB)
		if err != nil {
			return changes, ErrInvalidInput
		}
		changes.DOB = &dob
	}

	return changes, nil
}

func profileFromUser(user *model.User) *model.Profile {
	profile := &model.Profile{
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
	}
	if user.DOB != nil {
		dob := user.DOB.Format(dobLayout)
		profile.DOB = &dob
	}
	return profile
}
