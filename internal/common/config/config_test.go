package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "1271065450054418564")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 3, cfg.Sync.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Sync.BaseDelay)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.Equal(t, 10*time.Minute, cfg.OAuth.StateTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 0x9B59B6, cfg.Discord.RoleColor)
	assert.Equal(t, "roles:events", cfg.Events.Stream)
	assert.Equal(t, uint64(1271065450054418564), uint64(cfg.GuildSnowflake()))
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("DISCORD_GUILD_ID", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidGuildID(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "not-a-snowflake")

	_, err := Load()
	assert.ErrorContains(t, err, "DISCORD_GUILD_ID")
}

func TestLoad_AdminIDs(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_IDS", "111111111111111111,222222222222222222")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"111111111111111111", "222222222222222222"}, cfg.Discord.AdminIDs)
}

func TestValidateWeb(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateWeb())

	cfg.OAuth.ClientID = "id"
	cfg.OAuth.ClientSecret = "secret"
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.ValidateWeb())
}

func TestValidateBot(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateBot())

	cfg.Sync.MaxAttempts = 0
	assert.Error(t, cfg.ValidateBot())
}
