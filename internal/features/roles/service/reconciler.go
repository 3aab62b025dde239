package service

import (
	"context"
	"errors"
	"fmt"

	"catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

// ReconcileResult lists the role ids actually changed. Empty slices mean the
// member was already in sync.
type ReconcileResult struct {
	Added   []snowflake.ID
	Removed []snowflake.ID
	// NFTTier is the desired tier, nil when the count meets no threshold.
	NFTTier *models.RoleDefinition
	// NFTTierHeld is true when the member holds NFTTier after the pass.
	NFTTierHeld bool
}

func (r *ReconcileResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// RoleReconciler diffs a member's managed roles against the profile and
// applies the difference. Roles outside the catalog are never touched.
type RoleReconciler struct {
	api       GuildAPI
	catalog   *models.Catalog
	directory *GuildRoleDirectory
	log       zerolog.Logger
}

func NewRoleReconciler(api GuildAPI, catalog *models.Catalog, directory *GuildRoleDirectory, log zerolog.Logger) *RoleReconciler {
	return &RoleReconciler{
		api:       api,
		catalog:   catalog,
		directory: directory,
		log:       log,
	}
}

// Reconcile brings one member's managed roles in line with profile. It loads
// the directory on first use but leaves retrying failed role creations to the
// sync driver, once per pass. Adds are applied in one call, then removes in
// another; a failure in one batch does not undo the other and both failures
// are returned joined.
func (r *RoleReconciler) Reconcile(ctx context.Context, member models.MemberRef, profile *usermodels.Profile) (*ReconcileResult, error) {
	if !r.directory.Loaded() {
		if _, err := r.directory.EnsureRoles(ctx); err != nil {
			return nil, err
		}
	}

	log := r.log.With().Str("member_id", member.UserID.String()).Logger()

	desired := r.catalog.Desired(profile.ClaimedBadges, profile.LinkedRoleIDs, profile.NFTCount)
	result := &ReconcileResult{NFTTier: desired.NFTTier}

	desiredIDs := make([]snowflake.ID, 0, len(desired.Roles))
	wanted := make(map[snowflake.ID]bool, len(desired.Roles))
	var tierID snowflake.ID
	for _, def := range desired.Roles {
		id, ok := r.directory.Resolve(def)
		if !ok {
			log.Warn().Str("role", def.Name).Msg("Desired role is not present in guild, skipping")
			continue
		}
		if desired.NFTTier != nil && def.ID == desired.NFTTier.ID {
			tierID = id
		}
		desiredIDs = append(desiredIDs, id)
		wanted[id] = true
	}

	// Always a fresh read; membership is never cached across passes.
	current, err := r.api.GetMemberRoles(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("get member roles: %w", err)
	}
	held := make(map[snowflake.ID]bool, len(current))
	for _, id := range current {
		held[id] = true
	}

	var toAdd, toRemove []snowflake.ID
	for _, id := range desiredIDs {
		if !held[id] {
			toAdd = append(toAdd, id)
		}
	}
	// Any held managed role not wanted goes, which also strips every NFT
	// tier other than the chosen one.
	managed := r.directory.ManagedIDs()
	for _, id := range current {
		if _, ok := managed[id]; ok && !wanted[id] {
			toRemove = append(toRemove, id)
		}
	}

	var errs []error
	if len(toAdd) > 0 {
		if err := r.api.AddMemberRoles(ctx, member, toAdd); err != nil {
			log.Error().Err(err).Interface("roles", toAdd).Msg("Failed to add roles")
			errs = append(errs, fmt.Errorf("add roles: %w", err))
		} else {
			result.Added = toAdd
			for _, id := range toAdd {
				held[id] = true
			}
		}
	}
	if len(toRemove) > 0 {
		if err := r.api.RemoveMemberRoles(ctx, member, toRemove); err != nil {
			log.Error().Err(err).Interface("roles", toRemove).Msg("Failed to remove roles")
			errs = append(errs, fmt.Errorf("remove roles: %w", err))
		} else {
			result.Removed = toRemove
		}
	}

	result.NFTTierHeld = tierID != 0 && held[tierID]

	if result.Changed() {
		log.Info().
			Int("added", len(result.Added)).
			Int("removed", len(result.Removed)).
			Msg("Reconciled member roles")
	}

	return result, errors.Join(errs...)
}
