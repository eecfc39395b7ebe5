package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// Intents required to read the refresh command and post in guild channels.
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

// session is the subset of *discordgo.Session used by the bot.
type session interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// Bot wraps a discordgo session.
type Bot struct {
	Session *discordgo.Session

	api   session
	ready atomic.Bool
}

// New creates a session for the given bot token. The gateway is not opened until Open.
func New(token string) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord token empty")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	b := &Bot{Session: s, api: s}
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		b.ready.Store(false)
		slog.Warn("discord gateway disconnected", slog.String("component", "discord"))
	})
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
		b.ready.Store(true)
		slog.Info("discord gateway resumed", slog.String("component", "discord"))
	})
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.ready.Store(true)
		slog.Info("logged in", slog.String("user", r.User.String()), slog.Int("guilds", len(r.Guilds)), slog.String("component", "discord"))
	})
	return b, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	b.ready.Store(false)
	return b.Session.Close()
}

// Ready reports whether the gateway session is established.
func (b *Bot) Ready() bool { return b.ready.Load() }

// OnReady runs fn once, on the first Ready event.
func (b *Bot) OnReady(fn func()) {
	b.Session.AddHandlerOnce(func(_ *discordgo.Session, _ *discordgo.Ready) { fn() })
}

// HandleCommands registers h for incoming messages.
func (b *Bot) HandleCommands(h *CommandHandler) {
	b.Session.AddHandler(h.Handle)
}

// ResolveChannel confirms the channel exists and is visible to the bot.
func (b *Bot) ResolveChannel(ctx context.Context, channelID string) error {
	if channelID == "" {
		return errors.New("channel id empty")
	}
	ch, err := b.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	if ch == nil {
		return fmt.Errorf("channel %s not found", channelID)
	}
	return nil
}

// DeleteMessage fetches and deletes a message; a message that no longer exists is an error.
func (b *Bot) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	msg, err := b.api.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	if msg == nil {
		return fmt.Errorf("message %s not found", messageID)
	}
	if err := b.api.ChannelMessageDelete(channelID, msg.ID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	return nil
}

// SendEmbed posts embed to the channel and returns the new message id.
func (b *Bot) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error) {
	msg, err := b.api.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}
