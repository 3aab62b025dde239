package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/features/auth/session"
	usermodels "catcents-backend/internal/features/user/models"
	platformdiscord "catcents-backend/internal/platform/discord"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMissingCode  = errors.New("missing authorization code")
	ErrInvalidState = errors.New("invalid oauth state")
)

type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*platformdiscord.Identity, error)
}

type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type ProfileUpserter interface {
	UpsertIdentity(ctx context.Context, id snowflake.ID, username, avatar string) (*usermodels.Profile, error)
}

type AuthService interface {
	// BeginLogin returns the Discord authorize URL and the state bound to it.
	BeginLogin(ctx context.Context) (redirectURL, state string, err error)
	// CompleteLogin checks the state, exchanges the code and returns a
	// session token for the signed-in user.
	CompleteLogin(ctx context.Context, code, state, cookieState string) (string, *usermodels.Profile, error)
}

type authService struct {
	provider IdentityProvider
	states   StateStore
	users    ProfileUpserter
	sessions *session.Manager
	stateTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(
	provider IdentityProvider,
	states StateStore,
	users ProfileUpserter,
	sessions *session.Manager,
	stateTTL time.Duration,
	log zerolog.Logger,
) AuthService {
	return &authService{
		provider: provider,
		states:   states,
		users:    users,
		sessions: sessions,
		stateTTL: stateTTL,
		log:      log,
	}
}

func (s *authService) BeginLogin(ctx context.Context) (string, string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, s.stateTTL); err != nil {
		return "", "", fmt.Errorf("save state: %w", err)
	}
	return s.provider.AuthCodeURL(state), state, nil
}

func (s *authService) CompleteLogin(ctx context.Context, code, state, cookieState string) (string, *usermodels.Profile, error) {
	if code == "" {
		return "", nil, ErrMissingCode
	}
	if state == "" || state != cookieState {
		return "", nil, ErrInvalidState
	}
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", nil, fmt.Errorf("consume state: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidState
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", nil, apperrors.NewOAuthError("code exchange", err)
	}
	id, err := snowflake.Parse(identity.ID)
	if err != nil {
		return "", nil, apperrors.NewOAuthError("identity", fmt.Errorf("discord returned id %q: %w", identity.ID, err))
	}

	profile, err := s.users.UpsertIdentity(ctx, id, identity.Username, identity.Avatar)
	if err != nil {
		return "", nil, err
	}

	token, err := s.sessions.Issue(id, identity.Username)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", id.String()).Str("username", identity.Username).Msg("User signed in")
	return token, profile, nil
}
