package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"
	"catcents-backend/internal/features/user/repository"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	badge500  snowflake.ID = 500
	badge1000 snowflake.ID = 1000
	badge2000 snowflake.ID = 2000
	nft1      snowflake.ID = 11
	nft5      snowflake.ID = 15
	nft10     snowflake.ID = 110
	nft20     snowflake.ID = 120
	otherRole snowflake.ID = 900
	unmanaged snowflake.ID = 777
)

func testCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	c, err := models.NewCatalog("test", []models.RoleDefinition{
		{ID: badge500, Name: "badge-500", Category: models.CategoryBadge, Milestone: 500},
		{ID: badge1000, Name: "badge-1000", Category: models.CategoryBadge, Milestone: 1000},
		{ID: badge2000, Name: "badge-2000", Category: models.CategoryBadge, Milestone: 2000},
		{ID: nft1, Name: "nft-1", Category: models.CategoryNFTTier, Threshold: 1},
		{ID: nft5, Name: "nft-5", Category: models.CategoryNFTTier, Threshold: 5},
		{ID: nft10, Name: "nft-10", Category: models.CategoryNFTTier, Threshold: 10},
		{ID: nft20, Name: "nft-20", Category: models.CategoryNFTTier, Threshold: 20},
		{ID: otherRole, Name: "other", Category: models.CategoryOther},
	}, nil)
	require.NoError(t, err)
	return c
}

type apiErr struct {
	status int
}

func (e *apiErr) Error() string   { return fmt.Sprintf("discord api status %d", e.status) }
func (e *apiErr) StatusCode() int { return e.status }

type editCall struct {
	member snowflake.ID
	roles  []snowflake.ID
}

// fakeGuild is an in-memory guild. Role and membership changes are applied
// so repeated reconciliations observe earlier writes.
type fakeGuild struct {
	mu        sync.Mutex
	roles     []models.GuildRole
	members   map[snowflake.ID][]snowflake.ID
	usernames map[string]snowflake.ID
	nextID    snowflake.ID

	createErr map[string]error
	getErr    map[snowflake.ID]error
	addErr    []error // consumed one per call
	removeErr []error

	listCalls   int
	createCalls []models.CreateRoleParams
	getCalls    []snowflake.ID
	adds        []editCall
	removes     []editCall

	// When gate is set the first GetMemberRoles signals entered and waits.
	gate      chan struct{}
	entered   chan struct{}
	enterOnce sync.Once
}

func newFakeGuild(roles ...models.GuildRole) *fakeGuild {
	return &fakeGuild{
		roles:     roles,
		members:   make(map[snowflake.ID][]snowflake.ID),
		usernames: make(map[string]snowflake.ID),
		nextID:    5000000,
		createErr: make(map[string]error),
		getErr:    make(map[snowflake.ID]error),
	}
}

// guildWithCatalog returns a guild that already has every catalog role under
// its catalog id.
func guildWithCatalog(c *models.Catalog) *fakeGuild {
	var roles []models.GuildRole
	for _, d := range c.Definitions() {
		roles = append(roles, models.GuildRole{ID: d.ID, Name: d.Name})
	}
	roles = append(roles, models.GuildRole{ID: unmanaged, Name: "Moderator"})
	return newFakeGuild(roles...)
}

func (f *fakeGuild) setMember(id snowflake.ID, roles ...snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[id] = append([]snowflake.ID(nil), roles...)
}

func (f *fakeGuild) memberRoles(id snowflake.ID) []snowflake.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]snowflake.ID(nil), f.members[id]...)
}

func (f *fakeGuild) ListGuildRoles(context.Context) ([]models.GuildRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]models.GuildRole(nil), f.roles...), nil
}

func (f *fakeGuild) CreateGuildRole(_ context.Context, params models.CreateRoleParams) (models.GuildRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, params)
	if err := f.createErr[params.Name]; err != nil {
		return models.GuildRole{}, err
	}
	f.nextID++
	role := models.GuildRole{ID: f.nextID, Name: params.Name, Color: params.Color}
	f.roles = append(f.roles, role)
	return role, nil
}

func (f *fakeGuild) GetMemberRoles(_ context.Context, member models.MemberRef) ([]snowflake.ID, error) {
	if f.gate != nil {
		f.enterOnce.Do(func() { f.entered <- struct{}{} })
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, member.UserID)
	if err := f.getErr[member.UserID]; err != nil {
		return nil, err
	}
	roles, ok := f.members[member.UserID]
	if !ok {
		return nil, fmt.Errorf("get member %s: %w", member.UserID, models.ErrMemberNotFound)
	}
	return append([]snowflake.ID(nil), roles...), nil
}

func (f *fakeGuild) AddMemberRoles(_ context.Context, member models.MemberRef, ids []snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, editCall{member: member.UserID, roles: ids})
	if len(f.addErr) > 0 {
		err := f.addErr[0]
		f.addErr = f.addErr[1:]
		if err != nil {
			return err
		}
	}
	held := make(map[snowflake.ID]bool)
	for _, id := range f.members[member.UserID] {
		held[id] = true
	}
	for _, id := range ids {
		if !held[id] {
			f.members[member.UserID] = append(f.members[member.UserID], id)
		}
	}
	return nil
}

func (f *fakeGuild) RemoveMemberRoles(_ context.Context, member models.MemberRef, ids []snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes = append(f.removes, editCall{member: member.UserID, roles: ids})
	if len(f.removeErr) > 0 {
		err := f.removeErr[0]
		f.removeErr = f.removeErr[1:]
		if err != nil {
			return err
		}
	}
	drop := make(map[snowflake.ID]bool)
	for _, id := range ids {
		drop[id] = true
	}
	var kept []snowflake.ID
	for _, id := range f.members[member.UserID] {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	f.members[member.UserID] = kept
	return nil
}

func (f *fakeGuild) FindMemberByUsername(_ context.Context, username string) (models.MemberRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.usernames[username]
	if !ok {
		return models.MemberRef{}, models.ErrMemberNotFound
	}
	return models.MemberRef{UserID: id, Username: username}, nil
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[snowflake.ID]usermodels.Profile
	order    []snowflake.ID

	syncWrites int
}

func newMemProfiles(profiles ...usermodels.Profile) *memProfiles {
	m := &memProfiles{profiles: make(map[snowflake.ID]usermodels.Profile)}
	for _, p := range profiles {
		m.profiles[p.DiscordID] = p
		m.order = append(m.order, p.DiscordID)
	}
	return m
}

func (m *memProfiles) List(context.Context) ([]*usermodels.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*usermodels.Profile, 0, len(m.order))
	for _, id := range m.order {
		p := m.profiles[id]
		out = append(out, &p)
	}
	return out, nil
}

func (m *memProfiles) GetByID(_ context.Context, id snowflake.ID) (*usermodels.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

// Save stands in for the wallet and admin flows editing a profile.
func (m *memProfiles) Save(_ context.Context, p *usermodels.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.DiscordID]; !ok {
		m.order = append(m.order, p.DiscordID)
	}
	m.profiles[p.DiscordID] = *p
	return nil
}

func (m *memProfiles) UpdateSyncState(_ context.Context, id snowflake.ID, st usermodels.SyncState) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return false, repository.ErrProfileNotFound
	}
	if !p.ApplySyncState(st) {
		return false, nil
	}
	m.profiles[id] = p
	m.syncWrites++
	return true, nil
}

func (m *memProfiles) get(id snowflake.ID) usermodels.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id]
}

type fakeChain struct {
	balances map[string]int64
	err      error
	calls    int
}

func (c *fakeChain) NFTBalance(_ context.Context, wallet string) (int64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.balances[wallet], nil
}

func newReconciler(t *testing.T, guild *fakeGuild) (*RoleReconciler, *GuildRoleDirectory, *models.Catalog) {
	t.Helper()
	c := testCatalog(t)
	dir := NewGuildRoleDirectory(guild, c, 0x9B59B6, zerolog.Nop())
	return NewRoleReconciler(guild, c, dir, zerolog.Nop()), dir, c
}
