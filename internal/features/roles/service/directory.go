package service

import (
	"context"
	"fmt"
	"sync"

	"catcents-backend/internal/features/roles/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

// GuildRoleDirectory maps catalog roles to guild role ids. It is loaded once
// per process and only appended to afterwards; renames made in Discord
// during a run are not picked up until restart.
type GuildRoleDirectory struct {
	api     GuildAPI
	catalog *models.Catalog
	color   int
	log     zerolog.Logger

	mu       sync.RWMutex
	loaded   bool
	byName   map[string]snowflake.ID
	guildIDs map[snowflake.ID]bool
	resolved map[snowflake.ID]snowflake.ID // catalog id -> guild id
}

func NewGuildRoleDirectory(api GuildAPI, catalog *models.Catalog, color int, log zerolog.Logger) *GuildRoleDirectory {
	return &GuildRoleDirectory{
		api:      api,
		catalog:  catalog,
		color:    color,
		log:      log,
		byName:   make(map[string]snowflake.ID),
		guildIDs: make(map[snowflake.ID]bool),
		resolved: make(map[snowflake.ID]snowflake.ID),
	}
}

// EnsureRoles loads the guild roles on first use and creates every catalog
// role that is missing. A failed creation is logged and skipped. Later calls
// only retry roles that are still unresolved.
func (d *GuildRoleDirectory) EnsureRoles(ctx context.Context) (map[string]snowflake.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		roles, err := d.api.ListGuildRoles(ctx)
		if err != nil {
			return nil, fmt.Errorf("list guild roles: %w", err)
		}
		for _, r := range roles {
			d.guildIDs[r.ID] = true
			if _, dup := d.byName[r.Name]; !dup {
				d.byName[r.Name] = r.ID
			}
		}
		d.loaded = true
	}

	for _, def := range d.catalog.Definitions() {
		if _, ok := d.resolved[def.ID]; ok {
			continue
		}
		if d.guildIDs[def.ID] {
			d.resolved[def.ID] = def.ID
			continue
		}
		if id, ok := d.byName[def.Name]; ok {
			d.log.Warn().
				Str("role", def.Name).
				Str("catalog_id", def.ID.String()).
				Str("guild_id", id.String()).
				Msg("Catalog role resolved by name")
			d.resolved[def.ID] = id
			continue
		}

		created, err := d.api.CreateGuildRole(ctx, models.CreateRoleParams{Name: def.Name, Color: d.color})
		if err != nil {
			d.log.Error().Err(err).Str("role", def.Name).Msg("Failed to create role")
			continue
		}
		d.log.Info().Str("role", def.Name).Str("role_id", created.ID.String()).Msg("Created role")
		d.guildIDs[created.ID] = true
		d.byName[created.Name] = created.ID
		d.resolved[def.ID] = created.ID
	}

	return d.namesLocked(), nil
}

func (d *GuildRoleDirectory) namesLocked() map[string]snowflake.ID {
	out := make(map[string]snowflake.ID, len(d.resolved))
	for catalogID, guildID := range d.resolved {
		if def, ok := d.catalog.ByID(catalogID); ok {
			out[def.Name] = guildID
		}
	}
	return out
}

// Resolve returns the guild role id for a catalog role.
func (d *GuildRoleDirectory) Resolve(def models.RoleDefinition) (snowflake.ID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.resolved[def.ID]
	return id, ok
}

// ManagedIDs returns guild ids for every resolved catalog role, keyed by
// guild id.
func (d *GuildRoleDirectory) ManagedIDs() map[snowflake.ID]models.RoleDefinition {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[snowflake.ID]models.RoleDefinition, len(d.resolved))
	for catalogID, guildID := range d.resolved {
		if def, ok := d.catalog.ByID(catalogID); ok {
			out[guildID] = def
		}
	}
	return out
}

func (d *GuildRoleDirectory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}
