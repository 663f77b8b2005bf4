package discord

import (
	"context"
	"time"
)

type Embed struct {
	Title         string
	Description   string
	Color         int
	AuthorName    string
	AuthorIconURL string
	ThumbnailURL  string
	Timestamp     time.Time
}

type SlashCommandOptionType int

const (
	SlashCommandOptionInteger SlashCommandOptionType = iota + 1
	SlashCommandOptionUser
)

type SlashCommandOption struct {
	Name        string
	Description string
	Type        SlashCommandOptionType
	Required    bool
	MinValue    int
	MaxValue    int
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	IntegerOptions   map[string]int64
	UserOptions      map[string]string
	RespondEmbed     func(embed Embed) error
	RespondEphemeral func(content string) error
}

type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	BeforeChannelID string
	AfterChannelID  string
}

type MemberProfile struct {
	UserID      string
	DisplayName string
	AvatarURL   string
	IsBot       bool
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	SendChannelEmbed(channelID string, embed Embed) error
	RegisterVoiceStateUpdateHandler(handler func(VoiceStateEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	ResolveMember(guildID, userID string) MemberProfile
	ResolveChannelName(channelID string) string
	GetBotUserID() (string, error)
	Run() error
}
