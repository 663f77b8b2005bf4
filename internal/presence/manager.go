package presence

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/koebako/internal/config"
	"github.com/foxseedlab/koebako/internal/discord"
	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/foxseedlab/koebako/internal/repository"
	"github.com/foxseedlab/koebako/internal/voicetime"
)

type Manager struct {
	cfg     *config.Config
	discord discord.Client
	engine  *voicetime.Engine
	now     func() time.Time

	mu        sync.Mutex
	botUserID string
}

func NewManager(cfg *config.Config, dc discord.Client, engine *voicetime.Engine) *Manager {
	return &Manager{
		cfg:     cfg,
		discord: dc,
		engine:  engine,
		now:     time.Now,
	}
}

func (m *Manager) SetBotUserID(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.botUserID = userID
}

func (m *Manager) isSelf(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.botUserID != "" && m.botUserID == userID
}

func (m *Manager) LoadState(ctx context.Context) {
	if err := m.engine.Load(ctx); err != nil {
		if errors.Is(err, repository.ErrMalformedData) {
			slog.Warn("persisted voice data is malformed; affected structures start empty", "error", err)
			return
		}
		slog.Error("failed to load persisted voice data; writes are held until storage is readable again", "error", err)
		return
	}
	slog.Info("persisted voice data loaded", "members", len(m.engine.Totals()))
}

func (m *Manager) HandleVoiceStateUpdate(event discord.VoiceStateEvent) {
	slog.Debug("voice state update received", "guild_id", event.GuildID, "user_id", event.UserID, "before_channel_id", event.BeforeChannelID, "after_channel_id", event.AfterChannelID)
	if event.GuildID != m.cfg.DiscordGuildID {
		slog.Debug("ignoring voice event for different guild", "event_guild_id", event.GuildID, "configured_guild_id", m.cfg.DiscordGuildID)
		return
	}
	if m.isSelf(event.UserID) {
		return
	}

	profile := m.discord.ResolveMember(event.GuildID, event.UserID)
	pt := voicetime.PresenceTransition{
		Member: voicetime.Member{
			ID:          repository.MemberID(event.UserID),
			DisplayName: profile.DisplayName,
		},
		Before: m.channelRef(event.BeforeChannelID),
		After:  m.channelRef(event.AfterChannelID),
		At:     m.now(),
	}

	out, err := m.engine.Process(context.Background(), pt)
	if err != nil {
		slog.Error("failed to record voice transition", "error", err, "user_id", event.UserID, "line", out.Entry.Line)
		return
	}
	if out.NoOp() {
		return
	}
	slog.Info(out.Entry.Line, "user_id", event.UserID, "action", out.Entry.Action, "is_bot", profile.IsBot)
}

func (m *Manager) channelRef(channelID string) *repository.Channel {
	if channelID == "" {
		return nil
	}
	return &repository.Channel{ID: channelID, Name: m.discord.ResolveChannelName(channelID)}
}

func (m *Manager) HandleSlashCommand(event discord.SlashCommandEvent) {
	slog.Info("slash command received", "guild_id", event.GuildID, "command", event.CommandName, "user_id", event.UserID)
	if event.GuildID != m.cfg.DiscordGuildID {
		m.respondEphemeral(event, messageEphemeralWrongGuild)
		return
	}
	switch event.CommandName {
	case commandVCHistory:
		m.handleHistoryCommand(event)
	case commandVCStats:
		m.handleStatsCommand(event)
	default:
		m.respondEphemeral(event, messageEphemeralUnknownCommand)
	}
}

func (m *Manager) handleHistoryCommand(event discord.SlashCommandEvent) {
	limit := m.historyLimit(event.IntegerOptions)
	entries, err := m.engine.RecentHistory(limit)
	switch {
	case errors.Is(err, voicetime.ErrNoHistory):
		m.respondEmbed(event, discord.Embed{Title: messageHistoryTitle, Description: messageNoHistory, Color: notifier.ColorHistory})
		return
	case err != nil:
		slog.Error("failed to read voice history", "error", err, "limit", limit)
		m.respondEphemeral(event, messageEphemeralHistoryFailed)
		return
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Line)
	}
	m.respondEmbed(event, discord.Embed{
		Title:       messageHistoryTitle,
		Description: historyBlock(lines),
		Color:       notifier.ColorHistory,
	})
}

func (m *Manager) historyLimit(options map[string]int64) int {
	limit := m.cfg.HistoryDefaultLimit
	if v, ok := options[optionLimit]; ok {
		limit = int(v)
	}
	return min(max(limit, 1), m.cfg.HistoryMaxLimit)
}

func (m *Manager) handleStatsCommand(event discord.SlashCommandEvent) {
	target := event.UserID
	if id := event.UserOptions[optionMember]; id != "" {
		target = id
	}
	profile := m.discord.ResolveMember(event.GuildID, target)
	total := m.engine.LiveTotal(repository.MemberID(target), m.now())
	m.respondEmbed(event, discord.Embed{
		Title:        statsTitle(profile.DisplayName),
		Description:  statsDescription(voicetime.FormatDuration(total)),
		Color:        notifier.ColorStats,
		ThumbnailURL: profile.AvatarURL,
	})
}

func (m *Manager) respondEmbed(event discord.SlashCommandEvent, embed discord.Embed) {
	if event.RespondEmbed == nil {
		return
	}
	if err := event.RespondEmbed(embed); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName)
	}
}

func (m *Manager) respondEphemeral(event discord.SlashCommandEvent, content string) {
	if event.RespondEphemeral == nil {
		return
	}
	if err := event.RespondEphemeral(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName)
	}
}

func SlashCommandDefinitions(cfg *config.Config) []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        commandVCHistory,
			Description: slashCommandHistoryDescription,
			Options: []discord.SlashCommandOption{
				{
					Name:        optionLimit,
					Description: slashOptionLimitDescription,
					Type:        discord.SlashCommandOptionInteger,
					MinValue:    1,
					MaxValue:    cfg.HistoryMaxLimit,
				},
			},
		},
		{
			Name:        commandVCStats,
			Description: slashCommandStatsDescription,
			Options: []discord.SlashCommandOption{
				{
					Name:        optionMember,
					Description: slashOptionMemberDescription,
					Type:        discord.SlashCommandOptionUser,
				},
			},
		},
	}
}
