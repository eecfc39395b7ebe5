package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/wager-leaderboard/leaderboard"
	"github.com/onnwee/wager-leaderboard/telemetry"
)

const (
	DeniedReply  = "❌ You don't have permission to run this command."
	UpdatedReply = "✅ Leaderboard updated!"
	BusyReply    = "⏳ A leaderboard update is already running."
)

// Publisher runs a publish cycle. *leaderboard.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context) leaderboard.Result
}

// CommandHandler reacts to the refresh command.
type CommandHandler struct {
	Command   string
	Publisher Publisher
	// BaseContext is canceled on shutdown; defaults to context.Background.
	BaseContext context.Context
}

// Handle is registered with discordgo for MessageCreate events.
func (h *CommandHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.handle(s, m)
}

func (h *CommandHandler) handle(s session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	// Exact match only, no prefix parsing.
	if m.Content != h.Command {
		return
	}
	logger := slog.Default().With(
		slog.String("component", "discord"),
		slog.String("author_id", m.Author.ID),
		slog.String("channel_id", m.ChannelID))
	if m.GuildID == "" {
		logger.Debug("ignoring refresh command outside a guild")
		return
	}

	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		logger.Warn("permission lookup failed", slog.Any("err", err))
	}
	if err != nil || perms&discordgo.PermissionAdministrator == 0 {
		telemetry.RecordCommand("denied")
		h.reply(s, m, DeniedReply, logger)
		return
	}

	ctx := h.BaseContext
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = leaderboard.WithTrigger(ctx, "command")
	logger.Info("leaderboard refresh requested", slog.String("author", m.Author.Username))
	res := h.Publisher.Publish(ctx)

	switch {
	case res.Outcome.Published():
		telemetry.RecordCommand("accepted")
		h.reply(s, m, UpdatedReply, logger)
	case res.Outcome == leaderboard.OutcomeBusy:
		telemetry.RecordCommand("busy")
		h.reply(s, m, BusyReply, logger)
	default:
		// Fetch and channel failures are already logged by the publisher.
		telemetry.RecordCommand("failed")
		logger.Warn("leaderboard refresh produced no message", slog.String("outcome", string(res.Outcome)))
	}
}

func (h *CommandHandler) reply(s session, m *discordgo.MessageCreate, content string, logger *slog.Logger) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		logger.Warn("failed to reply to command", slog.String("reply", content), slog.Any("err", err))
	}
}
