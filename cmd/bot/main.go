package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"catcents-backend/internal/common/config"
	"catcents-backend/internal/common/logger"
	rolesDiscord "catcents-backend/internal/features/roles/delivery/discord"
	roleService "catcents-backend/internal/features/roles/service"
	"catcents-backend/internal/workers"
)

// Interaction tokens expire after 15 minutes, so the reply is edited by then
// even if the pass is still running.
const commandTimeout = 14 * time.Minute

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "Catcents role sync bot",
	Long: `Keeps Discord roles in line with each user's claimed badges,
linked roles and NFT holdings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := loaded.ValidateBot(); err != nil {
			return err
		}
		cfg = loaded
		logger.Init("catcents-bot", cfg.Debug, !cfg.Debug)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot: gateway, /syncroles, hourly sync and the events worker",
	RunE:  runServe,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one role sync pass over every stored profile and exit",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(serveCmd, syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	commands := rolesDiscord.NewCommandHandler(a.syncer, commandTimeout, logger.Component("command"))
	a.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Bot connected")
		if _, err := rolesDiscord.Register(s, cfg.Discord.GuildID); err != nil {
			log.Error().Err(err).Msg("Failed to register /syncroles")
			return
		}
		log.Info().Str("command", rolesDiscord.CommandName).Msg("Slash command registered")
	})
	a.session.AddHandler(commands.OnInteraction)

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer a.session.Close()

	scheduler := roleService.NewScheduler(a.syncer, cfg.Sync.Interval, cfg.Sync.RunOnStart, logger.Component("scheduler"))
	worker := workers.NewRoleEventsWorker(
		a.redis.Client,
		a.syncer,
		cfg.Events.Stream,
		cfg.Events.Group,
		cfg.Events.Consumer,
		logger.Component("events"),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error { return worker.Run(gctx) })

	err = g.Wait()
	log.Info().Msg("Bot stopped")
	return err
}

// runSync exits 0 even when the pass fails; per-member failures are in the log.
func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.syncer.SyncAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Role sync pass failed")
		return nil
	}
	log.Info().
		Int("reconciled", summary.Reconciled).
		Int("failed", summary.Failed).
		Msg("Role sync pass finished")
	return nil
}
