package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"techconnect/internal/domain"
)

type authService struct {
	userRepo domain.UserRepository
	verifier domain.TokenVerifier
	profiles domain.ProfileFetcher
}

// NewAuthService creates an AuthService bridging Clerk tokens into local
// users. When profiles is nil the service runs in inline-claims mode: the
// token claims seed the user on first creation and are never refreshed.
// With a ProfileFetcher the current Clerk profile overwrites the local
// fields on every successful authentication.
func NewAuthService(userRepo domain.UserRepository, verifier domain.TokenVerifier, profiles domain.ProfileFetcher) domain.AuthService {
	return &authService{
		userRepo: userRepo,
		verifier: verifier,
		profiles: profiles,
	}
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	refresh := identity
	if s.profiles != nil {
		fetched, err := s.profiles.Fetch(ctx, identity.Subject)
		if err != nil {
			return nil, err
		}
		refresh = fetched
	}

	user, err := s.userRepo.GetByClerkID(ctx, identity.Subject)
	switch {
	case err == nil:
		// Inline-claims mode creates with defaults only; with a profile
		// fetcher the latest fields overwrite on every authentication.
		if s.profiles == nil {
			return user, nil
		}
		user.Email = refresh.Email
		user.FirstName = refresh.FirstName
		user.LastName = refresh.LastName
		user.ImageURL = refresh.ImageURL
		user.UpdatedAt = time.Now()
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
		}
		return user, nil

	case errors.Is(err, domain.ErrNotFound):
		now := time.Now()
		user := domain.NewUser(identity.Subject, refresh.Email, refresh.FirstName, refresh.LastName, now, now)
		user.ImageURL = refresh.ImageURL
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
		}
		return user, nil

	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
}
