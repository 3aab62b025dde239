package service

import (
	"context"
	"errors"
	"time"

	"catcents-backend/internal/common/cache"
	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/features/eligibility/models"
	rolemodels "catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"
	"catcents-backend/internal/features/user/repository"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "role_check:"

// MemberRoleReader fetches the guild roles a member holds.
type MemberRoleReader interface {
	GetMemberRoles(ctx context.Context, member rolemodels.MemberRef) ([]snowflake.ID, error)
}

type EligibilityService interface {
	CheckRoles(ctx context.Context, userID snowflake.ID, forceRefresh bool) (*models.RoleCheck, error)
	Dashboard(ctx context.Context, userID snowflake.ID, isAdmin bool) (*models.Dashboard, error)
}

type eligibilityService struct {
	members  MemberRoleReader
	profiles repository.ProfileRepository
	catalog  *rolemodels.Catalog
	cache    *cache.CacheService
	ttl      time.Duration
	group    singleflight.Group
	now      func() time.Time
	log      zerolog.Logger
}

func NewEligibilityService(
	members MemberRoleReader,
	profiles repository.ProfileRepository,
	catalog *rolemodels.Catalog,
	roleCache *cache.CacheService,
	ttl time.Duration,
	log zerolog.Logger,
) EligibilityService {
	return &eligibilityService{
		members:  members,
		profiles: profiles,
		catalog:  catalog,
		cache:    roleCache,
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

// CheckRoles returns the eligibility roles the member holds. Results are
// cached for ttl; a member missing from the guild is never cached.
func (s *eligibilityService) CheckRoles(ctx context.Context, userID snowflake.ID, forceRefresh bool) (*models.RoleCheck, error) {
	key := cacheKeyPrefix + userID.String()

	if !forceRefresh {
		var cached models.RoleCheck
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			cached.Cached = true
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Role check cache read failed")
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		held, err := s.members.GetMemberRoles(ctx, rolemodels.MemberRef{UserID: userID})
		if errors.Is(err, rolemodels.ErrMemberNotFound) {
			return &models.RoleCheck{
				Roles:     []rolemodels.EligibilityRole{},
				Message:   rolemodels.NotEligibleMessage,
				CheckedAt: s.now().UTC(),
			}, nil
		}
		if err != nil {
			return nil, apperrors.NewDiscordAPIError("get member roles", err).WithUserID(userID.String())
		}

		check := s.buildCheck(held)
		if err := s.cache.Set(ctx, key, check, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Role check cache write failed")
		}
		return check, nil
	})
	if err != nil {
		return nil, err
	}

	out := *v.(*models.RoleCheck)
	return &out, nil
}

func (s *eligibilityService) buildCheck(held []snowflake.ID) *models.RoleCheck {
	roles := s.catalog.EligibleRoles(held)
	if roles == nil {
		roles = []rolemodels.EligibilityRole{}
	}
	check := &models.RoleCheck{
		InGuild:   true,
		Roles:     roles,
		CheckedAt: s.now().UTC(),
	}
	if len(roles) > 0 {
		highest := roles[0]
		check.HighestRole = &highest
	}
	check.Message = rolemodels.EligibilityMessage(check.HighestRole)
	return check
}

func (s *eligibilityService) Dashboard(ctx context.Context, userID snowflake.ID, isAdmin bool) (*models.Dashboard, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperrors.NewUserNotFoundError(userID.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	check, err := s.CheckRoles(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		Profile:     profile.ToResponse(isAdmin),
		Check:       check,
		HighestRole: check.HighestRole,
	}

	if profile.NFTRoleName != "" && profile.RoleStatus == usermodels.RoleStatusPending {
		if role, ok := s.catalog.EligibilityByName(profile.NFTRoleName); ok {
			d.NFTRole = &role
			if d.HighestRole == nil || role.Rank < d.HighestRole.Rank {
				d.HighestRole = &role
			}
		}
	}

	d.Eligible = d.HighestRole != nil
	d.Message = rolemodels.EligibilityMessage(d.HighestRole)
	return d, nil
}
