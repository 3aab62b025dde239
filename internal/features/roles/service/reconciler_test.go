package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"catcents-backend/internal/features/roles/models"
	usermodels "catcents-backend/internal/features/user/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memberID snowflake.ID = 80351110224678912

var member = models.MemberRef{UserID: memberID, Username: "whisker"}

func TestReconcile_EndToEndScenario(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	guild.setMember(memberID, badge500, nft5, unmanaged)
	r, _, _ := newReconciler(t, guild)

	profile := &usermodels.Profile{DiscordID: memberID, ClaimedBadges: []int{500, 1000}, NFTCount: 12}
	res, err := r.Reconcile(context.Background(), member, profile)

	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{badge1000, nft10}, res.Added)
	assert.Equal(t, []snowflake.ID{nft5}, res.Removed)
	require.NotNil(t, res.NFTTier)
	assert.Equal(t, "nft-10", res.NFTTier.Name)
	assert.True(t, res.NFTTierHeld)
	assert.ElementsMatch(t, []snowflake.ID{badge500, badge1000, nft10, unmanaged}, guild.memberRoles(memberID))

	// one batch each way
	assert.Len(t, guild.adds, 1)
	assert.Len(t, guild.removes, 1)
}

func TestReconcile_Idempotent(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	guild.setMember(memberID, badge500, nft5)
	r, _, _ := newReconciler(t, guild)
	profile := &usermodels.Profile{DiscordID: memberID, ClaimedBadges: []int{500, 1000}, NFTCount: 12}

	_, err := r.Reconcile(context.Background(), member, profile)
	require.NoError(t, err)

	res, err := r.Reconcile(context.Background(), member, profile)
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)
	assert.False(t, res.Changed())
	assert.Len(t, guild.adds, 1, "no add call when nothing to add")
	assert.Len(t, guild.removes, 1, "no remove call when nothing to remove")
	assert.Len(t, guild.getCalls, 2, "membership is re-read every pass")
}

func TestReconcile_EmptyDesiredStripsManagedRoles(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	guild.setMember(memberID, badge500, badge2000, nft1, otherRole, unmanaged)
	r, _, _ := newReconciler(t, guild)

	res, err := r.Reconcile(context.Background(), member, &usermodels.Profile{DiscordID: memberID})

	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.ElementsMatch(t, []snowflake.ID{badge500, badge2000, nft1, otherRole}, res.Removed)
	assert.Nil(t, res.NFTTier)
	assert.False(t, res.NFTTierHeld)
	assert.Equal(t, []snowflake.ID{unmanaged}, guild.memberRoles(memberID))
}

func TestReconcile_NeverTouchesUnmanagedRoles(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	extra := []snowflake.ID{unmanaged, 1, 2, 3, 424242}
	guild.setMember(memberID, append([]snowflake.ID{nft20}, extra...)...)
	r, _, _ := newReconciler(t, guild)

	profile := &usermodels.Profile{
		DiscordID:     memberID,
		ClaimedBadges: []int{2000},
		LinkedRoleIDs: []snowflake.ID{otherRole, 3},
		NFTCount:      3,
	}
	res, err := r.Reconcile(context.Background(), member, profile)
	require.NoError(t, err)

	for _, id := range append(res.Added, res.Removed...) {
		assert.True(t, c.IsManaged(id), "role %s is not managed", id)
	}
	assert.ElementsMatch(t, []snowflake.ID{badge2000, otherRole, nft1}, res.Added)
	assert.Equal(t, []snowflake.ID{nft20}, res.Removed)
	assert.Subset(t, guild.memberRoles(memberID), extra)
}

func TestReconcile_EnforcesSingleNFTTier(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	guild.setMember(memberID, nft1, nft5, nft10, nft20)
	r, _, _ := newReconciler(t, guild)

	res, err := r.Reconcile(context.Background(), member, &usermodels.Profile{DiscordID: memberID, NFTCount: 7})

	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.ElementsMatch(t, []snowflake.ID{nft1, nft10, nft20}, res.Removed)
	assert.True(t, res.NFTTierHeld)
	assert.Equal(t, []snowflake.ID{nft5}, guild.memberRoles(memberID))
}

func TestReconcile_AddFailureStillRemoves(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	guild.setMember(memberID, nft5)
	guild.addErr = []error{&apiErr{status: http.StatusForbidden}}
	r, _, _ := newReconciler(t, guild)

	profile := &usermodels.Profile{DiscordID: memberID, ClaimedBadges: []int{500}}
	res, err := r.Reconcile(context.Background(), member, profile)

	require.Error(t, err)
	var ae *apiErr
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusForbidden, ae.status)
	require.NotNil(t, res)
	assert.Empty(t, res.Added)
	assert.Equal(t, []snowflake.ID{nft5}, res.Removed)
	assert.Empty(t, guild.memberRoles(memberID))
}

func TestReconcile_MemberNotFound(t *testing.T) {
	c := testCatalog(t)
	guild := guildWithCatalog(c)
	r, _, _ := newReconciler(t, guild)

	_, err := r.Reconcile(context.Background(), member, &usermodels.Profile{DiscordID: memberID, NFTCount: 3})

	assert.ErrorIs(t, err, models.ErrMemberNotFound)
	assert.Empty(t, guild.adds)
}

func TestReconcile_UsesGuildIDsForNameResolvedRoles(t *testing.T) {
	// Guild created the badge under a different id before ids were pinned.
	guild := newFakeGuild(models.GuildRole{ID: 31337, Name: "badge-500"})
	guild.setMember(memberID)
	r, _, _ := newReconciler(t, guild)

	res, err := r.Reconcile(context.Background(), member, &usermodels.Profile{DiscordID: memberID, ClaimedBadges: []int{500}})

	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{31337}, res.Added)
}
