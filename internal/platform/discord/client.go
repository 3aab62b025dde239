package discord

import (
	"context"
	"fmt"
	"strings"

	"catcents-backend/internal/features/roles/models"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// NewSession creates a bot session. Rate limits are surfaced as errors so
// the caller's retry policy owns backoff.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.ShouldRetryOnRateLimit = false
	s.MaxRestRetries = 0
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	return s, nil
}

// Client implements the role service GuildAPI for one guild.
type Client struct {
	session *discordgo.Session
	guildID string
}

func NewClient(session *discordgo.Session, guildID snowflake.ID) *Client {
	return &Client{session: session, guildID: guildID.String()}
}

func (c *Client) ListGuildRoles(ctx context.Context) ([]models.GuildRole, error) {
	roles, err := c.session.GuildRoles(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError("list roles", err, false)
	}
	out := make([]models.GuildRole, 0, len(roles))
	for _, r := range roles {
		id, err := snowflake.Parse(r.ID)
		if err != nil {
			continue
		}
		out = append(out, models.GuildRole{ID: id, Name: r.Name, Color: r.Color})
	}
	return out, nil
}

func (c *Client) CreateGuildRole(ctx context.Context, params models.CreateRoleParams) (models.GuildRole, error) {
	color := params.Color
	var perms int64
	role, err := c.session.GuildRoleCreate(c.guildID, &discordgo.RoleParams{
		Name:        params.Name,
		Color:       &color,
		Permissions: &perms,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return models.GuildRole{}, wrapError("create role", err, false)
	}
	id, err := snowflake.Parse(role.ID)
	if err != nil {
		return models.GuildRole{}, fmt.Errorf("discord create role: bad id %q: %w", role.ID, err)
	}
	return models.GuildRole{ID: id, Name: role.Name, Color: role.Color}, nil
}

func (c *Client) member(ctx context.Context, member models.MemberRef) (*discordgo.Member, error) {
	m, err := c.session.GuildMember(c.guildID, member.UserID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError("get member", err, true)
	}
	return m, nil
}

func (c *Client) GetMemberRoles(ctx context.Context, member models.MemberRef) ([]snowflake.ID, error) {
	m, err := c.member(ctx, member)
	if err != nil {
		return nil, err
	}
	return parseIDs(m.Roles), nil
}

// AddMemberRoles grants all ids with a single member edit.
func (c *Client) AddMemberRoles(ctx context.Context, member models.MemberRef, roleIDs []snowflake.ID) error {
	m, err := c.member(ctx, member)
	if err != nil {
		return err
	}
	return c.editRoles(ctx, member, mergeRoles(m.Roles, roleIDs, nil))
}

// RemoveMemberRoles drops all ids with a single member edit.
func (c *Client) RemoveMemberRoles(ctx context.Context, member models.MemberRef, roleIDs []snowflake.ID) error {
	m, err := c.member(ctx, member)
	if err != nil {
		return err
	}
	return c.editRoles(ctx, member, mergeRoles(m.Roles, nil, roleIDs))
}

func (c *Client) editRoles(ctx context.Context, member models.MemberRef, roles []string) error {
	_, err := c.session.GuildMemberEdit(c.guildID, member.UserID.String(), &discordgo.GuildMemberParams{
		Roles: &roles,
	}, discordgo.WithContext(ctx))
	return wrapError("edit member roles", err, true)
}

// FindMemberByUsername searches guild members by username prefix and
// returns the exact (case-insensitive) match.
func (c *Client) FindMemberByUsername(ctx context.Context, username string) (models.MemberRef, error) {
	members, err := c.session.GuildMembersSearch(c.guildID, username, 10, discordgo.WithContext(ctx))
	if err != nil {
		return models.MemberRef{}, wrapError("search members", err, false)
	}
	for _, m := range members {
		if m.User == nil || !strings.EqualFold(m.User.Username, username) {
			continue
		}
		id, err := snowflake.Parse(m.User.ID)
		if err != nil {
			continue
		}
		return models.MemberRef{UserID: id, Username: m.User.Username}, nil
	}
	return models.MemberRef{}, models.ErrMemberNotFound
}

func parseIDs(raw []string) []snowflake.ID {
	out := make([]snowflake.ID, 0, len(raw))
	for _, r := range raw {
		if id, err := snowflake.Parse(r); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// mergeRoles returns current plus add, minus remove, keeping the original
// order and dropping duplicates.
func mergeRoles(current []string, add, remove []snowflake.ID) []string {
	drop := make(map[string]bool, len(remove))
	for _, id := range remove {
		drop[id.String()] = true
	}
	seen := make(map[string]bool, len(current)+len(add))
	out := make([]string, 0, len(current)+len(add))
	for _, id := range current {
		if !drop[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range add {
		s := id.String()
		if !drop[s] && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
