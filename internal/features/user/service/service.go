package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	apperrors "catcents-backend/internal/common/errors"
	rolemodels "catcents-backend/internal/features/roles/models"
	"catcents-backend/internal/features/user/models"
	"catcents-backend/internal/features/user/repository"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

type userService struct {
	repo    repository.ProfileRepository
	catalog *rolemodels.Catalog
	log     zerolog.Logger
}

func NewUserService(repo repository.ProfileRepository, catalog *rolemodels.Catalog, log zerolog.Logger) UserService {
	return &userService{
		repo:    repo,
		catalog: catalog,
		log:     log,
	}
}

func (s *userService) UpsertIdentity(ctx context.Context, id snowflake.ID, username, avatar string) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		profile = &models.Profile{DiscordID: id, Username: username, Avatar: avatar}
		if err := s.repo.Save(ctx, profile); err != nil {
			return nil, apperrors.NewDatabaseError("create profile", err)
		}
		s.log.Info().Str("user_id", id.String()).Str("username", username).Msg("Profile created")
		return profile, nil
	case err != nil:
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	if profile.Username == username && profile.Avatar == avatar {
		return profile, nil
	}
	profile.Username = username
	profile.Avatar = avatar
	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, apperrors.NewDatabaseError("update profile", err)
	}
	return profile, nil
}

func (s *userService) GetProfile(ctx context.Context, id snowflake.ID) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperrors.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}
	return profile, nil
}

func (s *userService) SetBadges(ctx context.Context, id snowflake.ID, req *models.UpdateBadgesRequest) (*models.Profile, error) {
	milestones, err := s.checkMilestones(req.ClaimedBadges)
	if err != nil {
		return nil, err
	}
	linked, err := s.checkLinkedRoles(req.LinkedRoleIDs)
	if err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.ClaimedBadges = milestones
	profile.LinkedRoleIDs = linked
	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, apperrors.NewDatabaseError("update badges", err)
	}

	s.log.Info().
		Str("user_id", id.String()).
		Ints("claimed_badges", milestones).
		Int("linked_roles", len(linked)).
		Msg("Badges updated")
	return profile, nil
}

func (s *userService) checkMilestones(raw []int) ([]int, error) {
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, m := range raw {
		if _, ok := s.catalog.BadgeForMilestone(m); !ok {
			return nil, apperrors.New(apperrors.ErrCodeUnknownBadge, fmt.Sprintf("No badge for milestone %d", m)).
				WithDetail("milestone", m)
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (s *userService) checkLinkedRoles(raw []string) ([]snowflake.ID, error) {
	out := make([]snowflake.ID, 0, len(raw))
	seen := make(map[snowflake.ID]bool, len(raw))
	for _, r := range raw {
		id, err := snowflake.Parse(r)
		if err != nil {
			return nil, apperrors.NewValidationError("linked_role_ids", fmt.Sprintf("%q is not a role id", r))
		}
		def, ok := s.catalog.ByID(id)
		if !ok || def.Category != rolemodels.CategoryOther {
			return nil, apperrors.New(apperrors.ErrCodeUnknownBadge, fmt.Sprintf("Role %s cannot be linked", r)).
				WithDetail("role_id", r)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
