package discord

import (
	"context"
	"time"

	"catcents-backend/internal/features/roles/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	CommandName = "syncroles"

	msgDenied    = "You need Manage Roles permission to use this command."
	msgCompleted = "Role sync completed for all users."
)

// Responder is the part of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type SyncRunner interface {
	SyncAll(ctx context.Context) (service.SyncSummary, error)
}

// CommandHandler serves the /syncroles operator command. The pass runs
// detached from the interaction; timeout bounds only the wait before the
// reply is edited.
type CommandHandler struct {
	runner  SyncRunner
	timeout time.Duration
	log     zerolog.Logger
}

func NewCommandHandler(runner SyncRunner, timeout time.Duration, log zerolog.Logger) *CommandHandler {
	return &CommandHandler{runner: runner, timeout: timeout, log: log}
}

func Command() *discordgo.ApplicationCommand {
	perms := int64(discordgo.PermissionManageRoles)
	return &discordgo.ApplicationCommand{
		Name:                     CommandName,
		Description:              "Manually sync roles for all users",
		DefaultMemberPermissions: &perms,
	}
}

// Register creates the guild command. Call it after the session is ready.
func Register(s *discordgo.Session, guildID string) (*discordgo.ApplicationCommand, error) {
	return s.ApplicationCommandCreate(s.State.User.ID, guildID, Command())
}

// OnInteraction is added to the session with AddHandler.
func (h *CommandHandler) OnInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.Handle(context.Background(), s, i.Interaction)
}

func (h *CommandHandler) Handle(ctx context.Context, r Responder, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand || i.ApplicationCommandData().Name != CommandName {
		return
	}

	log := h.log.With().Str("command", CommandName).Str("caller", callerID(i)).Logger()

	if !canManageRoles(i) {
		err := r.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: msgDenied,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to answer denied command")
		}
		log.Warn().Msg("Sync command denied")
		return
	}

	if err := r.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to defer command reply")
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, err := h.runner.SyncAll(context.WithoutCancel(ctx))
		if err != nil {
			log.Error().Err(err).Msg("Manual sync failed")
			return
		}
		log.Info().Int("reconciled", summary.Reconciled).Int("failed", summary.Failed).Msg("Manual sync finished")
	}()

	var deadline <-chan time.Time
	if h.timeout > 0 {
		timer := time.NewTimer(h.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-done:
	case <-deadline:
		log.Warn().Dur("timeout", h.timeout).Msg("Sync still running, answering before the interaction expires")
	case <-ctx.Done():
		log.Warn().Err(ctx.Err()).Msg("Sync still running, command context done")
	}

	content := msgCompleted
	if _, err := r.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Error().Err(err).Msg("Failed to edit command reply")
	}
}

func canManageRoles(i *discordgo.Interaction) bool {
	if i.Member == nil {
		return false
	}
	p := i.Member.Permissions
	return p&discordgo.PermissionAdministrator != 0 || p&discordgo.PermissionManageRoles != 0
}

func callerID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
