package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"catcents-backend/internal/common/config"
	"catcents-backend/internal/common/logger"
	"catcents-backend/internal/common/retry"
	rolemodels "catcents-backend/internal/features/roles/models"
	roleService "catcents-backend/internal/features/roles/service"
	userRepo "catcents-backend/internal/features/user/repository/redis"
	"catcents-backend/internal/platform/chain"
	"catcents-backend/internal/platform/discord"
	"catcents-backend/internal/platform/redis"
)

// app holds what both subcommands share.
type app struct {
	cfg     *config.Config
	redis   *redis.Client
	session *discordgo.Session
	catalog *rolemodels.Catalog
	syncer  *roleService.Syncer

	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, catalog: rolemodels.DefaultCatalog()}

	redisClient, err := redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.redis = redisClient
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	session, err := discord.NewSession(cfg.Discord.BotToken)
	if err != nil {
		a.Close()
		return nil, err
	}
	session.Client.Timeout = cfg.Discord.APITimeout
	a.session = session

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.Sync.MaxAttempts
	policy.BaseDelay = cfg.Sync.BaseDelay
	api := roleService.WithRetry(discord.NewClient(session, cfg.GuildSnowflake()), policy, logger.Component("discord"))

	directory := roleService.NewGuildRoleDirectory(api, a.catalog, cfg.Discord.RoleColor, logger.Component("directory"))
	reconciler := roleService.NewRoleReconciler(api, a.catalog, directory, logger.Component("reconciler"))

	var opts []roleService.SyncerOption
	if cfg.Sync.RefreshChain {
		reader, closeChain, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.NFTContract, cfg.Chain.Timeout)
		if err != nil {
			logger.Warn().Err(err).Msg("Chain RPC unavailable, using stored NFT counts")
		} else {
			a.closers = append(a.closers, closeChain)
			opts = append(opts, roleService.WithChainRefresh(reader))
		}
	}

	a.syncer = roleService.NewSyncer(
		api,
		userRepo.NewProfileRepository(redisClient),
		a.catalog,
		reconciler,
		logger.Component("sync"),
		opts...,
	)

	logger.Info().
		Str("guild_id", cfg.Discord.GuildID).
		Str("catalog", a.catalog.Version()).
		Bool("chain_refresh", len(opts) > 0).
		Msg("Role sync wired")

	return a, nil
}
