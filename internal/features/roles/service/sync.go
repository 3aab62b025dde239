package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

// SyncSummary counts what one population pass did.
type SyncSummary struct {
	Seen       int           `json:"seen"`
	Reconciled int           `json:"reconciled"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Added      int           `json:"added"`
	Removed    int           `json:"removed"`
	Duration   time.Duration `json:"duration"`
}

func (s SyncSummary) log(e *zerolog.Event) *zerolog.Event {
	return e.
		Int("seen", s.Seen).
		Int("reconciled", s.Reconciled).
		Int("skipped", s.Skipped).
		Int("failed", s.Failed).
		Int("added", s.Added).
		Int("removed", s.Removed).
		Dur("duration", s.Duration)
}

type pass struct {
	done    chan struct{}
	summary SyncSummary
	err     error
}

// Syncer runs reconciliation over every stored profile. Overlapping SyncAll
// calls join the pass already in flight; single-member syncs wait for it.
type Syncer struct {
	api          GuildAPI
	profiles     ProfileStore
	chain        ChainReader
	catalog      *models.Catalog
	reconciler   *RoleReconciler
	refreshChain bool
	log          zerolog.Logger
	now          func() time.Time

	mu       sync.Mutex
	inflight *pass
	joined   int

	// serializes passes and single-member syncs
	passMu sync.Mutex
}

type SyncerOption func(*Syncer)

// WithChainRefresh makes each pass re-read NFT balances for linked wallets.
func WithChainRefresh(chain ChainReader) SyncerOption {
	return func(s *Syncer) {
		s.chain = chain
		s.refreshChain = chain != nil
	}
}

func WithClock(now func() time.Time) SyncerOption {
	return func(s *Syncer) { s.now = now }
}

func NewSyncer(api GuildAPI, profiles ProfileStore, catalog *models.Catalog, reconciler *RoleReconciler, log zerolog.Logger, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		api:        api,
		profiles:   profiles,
		catalog:    catalog,
		reconciler: reconciler,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncAll runs one pass over every profile. When a pass is already running
// the caller waits for it and receives its summary instead of starting
// another one. Per-member failures are counted, not returned; an error means
// the pass could not run at all or ctx ended.
func (s *Syncer) SyncAll(ctx context.Context) (SyncSummary, error) {
	s.mu.Lock()
	if p := s.inflight; p != nil {
		s.joined++
		s.mu.Unlock()
		s.log.Info().Msg("Role sync already running, waiting for it")
		select {
		case <-p.done:
			return p.summary, p.err
		case <-ctx.Done():
			return SyncSummary{}, ctx.Err()
		}
	}
	p := &pass{done: make(chan struct{})}
	s.inflight = p
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight = nil
		s.mu.Unlock()
		close(p.done)
	}()

	p.summary, p.err = s.runPass(ctx)
	return p.summary, p.err
}

// Running reports whether a pass is in flight.
func (s *Syncer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != nil
}

// Joined returns how many SyncAll calls were folded into an existing pass.
func (s *Syncer) Joined() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joined
}

func (s *Syncer) runPass(ctx context.Context) (SyncSummary, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	start := s.now()
	var summary SyncSummary

	s.log.Info().Msg("Starting role sync")

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("list profiles: %w", err)
	}
	// Missing roles get one creation attempt per pass.
	if _, err := s.reconciler.directory.EnsureRoles(ctx); err != nil {
		return summary, fmt.Errorf("ensure roles: %w", err)
	}

	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			summary.Duration = s.now().Sub(start)
			summary.log(s.log.Warn()).Msg("Role sync interrupted")
			return summary, err
		}
		summary.Seen++

		res, err := s.syncProfile(ctx, profile)
		switch {
		case errors.Is(err, errMemberSkipped):
			summary.Skipped++
		case err != nil:
			summary.Failed++
		default:
			summary.Reconciled++
		}
		if res != nil {
			summary.Added += len(res.Added)
			summary.Removed += len(res.Removed)
		}
	}

	summary.Duration = s.now().Sub(start)
	summary.log(s.log.Info()).Msg("Role sync completed")
	return summary, nil
}

// SyncMember reconciles a single stored profile. It never overlaps a pass.
func (s *Syncer) SyncMember(ctx context.Context, userID snowflake.ID) (*ReconcileResult, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	if _, err := s.reconciler.directory.EnsureRoles(ctx); err != nil {
		return nil, fmt.Errorf("ensure roles: %w", err)
	}
	res, err := s.syncProfile(ctx, profile)
	if errors.Is(err, errMemberSkipped) {
		return nil, fmt.Errorf("member %s: %w", userID, models.ErrMemberNotFound)
	}
	return res, err
}

var errMemberSkipped = errors.New("member skipped")

func (s *Syncer) syncProfile(ctx context.Context, profile *usermodels.Profile) (*ReconcileResult, error) {
	log := s.log.With().
		Str("member_id", profile.DiscordID.String()).
		Str("username", profile.Username).
		Logger()

	member, err := s.resolveMember(ctx, profile)
	if err != nil {
		if errors.Is(err, models.ErrMemberNotFound) {
			log.Info().Msg("Member not found in guild, skipping")
		} else {
			log.Warn().Err(err).Msg("Member lookup failed, skipping")
		}
		return nil, errMemberSkipped
	}

	dirty := false
	if s.refreshChain && profile.HasWallet() {
		count, err := s.chain.NFTBalance(ctx, profile.WalletAddress)
		if err != nil {
			log.Warn().Err(err).Int("nft_count", profile.NFTCount).Msg("NFT balance read failed, using stored count")
		} else if ApplyNFTCount(s.catalog, profile, int(count)) {
			log.Info().Int64("nft_count", count).Str("nft_role", profile.NFTRoleName).Msg("NFT count changed")
			dirty = true
		}
	}

	res, err := s.reconciler.Reconcile(ctx, member, profile)
	if err != nil && errors.Is(err, models.ErrMemberNotFound) {
		log.Info().Msg("Member not found in guild, skipping")
		return nil, errMemberSkipped
	}
	if res != nil && profile.RoleStatus == usermodels.RoleStatusPending && res.NFTTierHeld {
		profile.RoleStatus = usermodels.RoleStatusAssigned
		dirty = true
	}

	if dirty {
		applied, saveErr := s.profiles.UpdateSyncState(ctx, profile.DiscordID, usermodels.SyncState{
			WalletAddress: profile.WalletAddress,
			WalletAt:      profile.WalletAt,
			NFTCount:      profile.NFTCount,
			NFTRoleName:   profile.NFTRoleName,
			RoleStatus:    profile.RoleStatus,
			SyncedAt:      s.now().UTC(),
		})
		switch {
		case saveErr != nil:
			log.Error().Err(saveErr).Msg("Failed to save sync state")
			err = errors.Join(err, saveErr)
		case !applied:
			log.Info().Msg("Wallet resubmitted during sync, leaving NFT state to the next sync")
		}
	}

	if err != nil {
		log.Error().Err(err).Msg("Failed to reconcile member")
	}
	return res, err
}

func (s *Syncer) resolveMember(ctx context.Context, profile *usermodels.Profile) (models.MemberRef, error) {
	if profile.DiscordID != 0 {
		return models.MemberRef{UserID: profile.DiscordID, Username: profile.Username}, nil
	}
	if profile.Username == "" {
		return models.MemberRef{}, models.ErrMemberNotFound
	}
	return s.api.FindMemberByUsername(ctx, profile.Username)
}

// ApplyNFTCount stores count on profile along with the tier it maps to. A new
// tier is marked pending until the bot sees it granted. Reports whether
// anything changed.
func ApplyNFTCount(catalog *models.Catalog, profile *usermodels.Profile, count int) bool {
	if count < 0 {
		count = 0
	}
	tierName := ""
	if tier, ok := catalog.NFTTierFor(count); ok {
		tierName = tier.Name
	}

	changed := profile.NFTCount != count
	profile.NFTCount = count

	if profile.NFTRoleName != tierName {
		profile.NFTRoleName = tierName
		if tierName == "" {
			profile.RoleStatus = usermodels.RoleStatusNone
		} else {
			profile.RoleStatus = usermodels.RoleStatusPending
		}
		changed = true
	}
	return changed
}
