package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/koebako/internal/discord"
)

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates | discordgo.IntentsGuildMembers)
	s.State.TrackVoice = true
	// handlers run on the gateway goroutine so transitions apply in arrival order
	s.SyncEvents = true
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) SendChannelEmbed(channelID string, embed discordpkg.Embed) error {
	if c.session == nil {
		return fmt.Errorf("discord session is not initialized")
	}
	_, err := c.session.ChannelMessageSendEmbed(channelID, toMessageEmbed(embed))
	return err
}

func toMessageEmbed(e discordpkg.Embed) *discordgo.MessageEmbed {
	me := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if !e.Timestamp.IsZero() {
		me.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	if e.AuthorName != "" {
		me.Author = &discordgo.MessageEmbedAuthor{Name: e.AuthorName, IconURL: e.AuthorIconURL}
	}
	if e.ThumbnailURL != "" {
		me.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.ThumbnailURL}
	}
	return me
}

func (c *Client) RegisterVoiceStateUpdateHandler(handler func(discordpkg.VoiceStateEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		if event, ok := toVoiceStateEvent(vs); ok {
			handler(event)
		}
	})
}

func toVoiceStateEvent(vs *discordgo.VoiceStateUpdate) (discordpkg.VoiceStateEvent, bool) {
	if vs == nil || vs.VoiceState == nil {
		return discordpkg.VoiceStateEvent{}, false
	}
	if vs.GuildID == "" || vs.UserID == "" {
		return discordpkg.VoiceStateEvent{}, false
	}
	beforeChannelID := ""
	if vs.BeforeUpdate != nil {
		beforeChannelID = vs.BeforeUpdate.ChannelID
	}
	// mute, deafen and stream toggles keep the channel
	if beforeChannelID == vs.ChannelID {
		return discordpkg.VoiceStateEvent{}, false
	}
	return discordpkg.VoiceStateEvent{
		GuildID:         vs.GuildID,
		UserID:          vs.UserID,
		BeforeChannelID: beforeChannelID,
		AfterChannelID:  vs.ChannelID,
	}, true
}

func (c *Client) RegisterSlashCommandHandler(handler func(discordpkg.SlashCommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID := ""
		if ic.Member != nil && ic.Member.User != nil {
			userID = ic.Member.User.ID
		}
		if userID == "" && ic.User != nil {
			userID = ic.User.ID
		}
		if userID == "" {
			return
		}
		integers, users := parseCommandOptions(data.Options)
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "command", data.Name, "user_id", userID)
		handler(discordpkg.SlashCommandEvent{
			GuildID:        ic.GuildID,
			ChannelID:      ic.ChannelID,
			CommandName:    data.Name,
			UserID:         userID,
			IntegerOptions: integers,
			UserOptions:    users,
			RespondEmbed: func(embed discordpkg.Embed) error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Embeds: []*discordgo.MessageEmbed{toMessageEmbed(embed)},
					},
				})
			},
			RespondEphemeral: func(content string) error {
				slog.Info("responding to slash interaction", "command", data.Name, "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "user_id", userID)
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: content,
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				})
			},
		})
	})
}

func parseCommandOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) (map[string]int64, map[string]string) {
	integers := make(map[string]int64)
	users := make(map[string]string)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			integers[opt.Name] = opt.IntValue()
		case discordgo.ApplicationCommandOptionUser:
			if id, ok := opt.Value.(string); ok && id != "" {
				users[opt.Name] = id
			}
		}
	}
	return integers, users
}

func (c *Client) UpsertGuildSlashCommands(guildID string, defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertGuildSlashCommand(appID, guildID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertGuildSlashCommand(appID, guildID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := toApplicationCommand(def)
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, guildID, payload)
		return err
	}
	if sameApplicationCommand(cmd, payload) {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, guildID, cmd.ID, payload)
	return err
}

func toApplicationCommand(def discordpkg.SlashCommandDefinition) *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
	}
	for _, opt := range def.Options {
		o := &discordgo.ApplicationCommandOption{
			Name:        opt.Name,
			Description: opt.Description,
			Required:    opt.Required,
		}
		switch opt.Type {
		case discordpkg.SlashCommandOptionInteger:
			o.Type = discordgo.ApplicationCommandOptionInteger
			if opt.MinValue != 0 {
				minValue := float64(opt.MinValue)
				o.MinValue = &minValue
			}
			o.MaxValue = float64(opt.MaxValue)
		case discordpkg.SlashCommandOptionUser:
			o.Type = discordgo.ApplicationCommandOptionUser
		}
		cmd.Options = append(cmd.Options, o)
	}
	return cmd
}

func sameApplicationCommand(existing, want *discordgo.ApplicationCommand) bool {
	if existing.Description != want.Description || len(existing.Options) != len(want.Options) {
		return false
	}
	return slices.EqualFunc(existing.Options, want.Options, func(a, b *discordgo.ApplicationCommandOption) bool {
		if a == nil || b == nil {
			return a == b
		}
		if a.Name != b.Name || a.Description != b.Description || a.Type != b.Type || a.Required != b.Required || a.MaxValue != b.MaxValue {
			return false
		}
		if (a.MinValue == nil) != (b.MinValue == nil) {
			return false
		}
		return a.MinValue == nil || *a.MinValue == *b.MinValue
	})
}

func (c *Client) ResolveMember(guildID, userID string) discordpkg.MemberProfile {
	profile := discordpkg.MemberProfile{UserID: userID, DisplayName: userID}
	if c.session == nil {
		return profile
	}

	member := c.resolveGuildMember(guildID, userID)
	if member != nil {
		if member.Nick != "" {
			profile.DisplayName = member.Nick
		}
		if member.User != nil {
			profile.AvatarURL = member.AvatarURL("")
			if profile.DisplayName == userID {
				profile.DisplayName = preferredDiscordName(member.User.GlobalName, member.User.Username, userID)
			}
			profile.IsBot = member.User.Bot
		}
		return profile
	}

	u, err := c.session.User(userID)
	if err != nil || u == nil {
		if !isRESTNotFound(err) {
			slog.Warn("discord member could not be resolved; using user id fallback", "error", err, "guild_id", guildID, "user_id", userID)
		}
		return profile
	}
	profile.DisplayName = preferredDiscordName(u.GlobalName, u.Username, userID)
	profile.AvatarURL = u.AvatarURL("")
	profile.IsBot = u.Bot
	return profile
}

func (c *Client) ResolveChannelName(channelID string) string {
	if channelID == "" {
		return ""
	}
	channel := c.resolveChannel(channelID)
	if channel == nil {
		slog.Warn("discord channel name could not be resolved; using channel id fallback", "channel_id", channelID)
		return channelID
	}
	return channel.Name
}

func isRESTNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) resolveChannel(channelID string) *discordgo.Channel {
	if c.session == nil {
		return nil
	}
	if c.session.State != nil {
		channel, err := c.session.State.Channel(channelID)
		if err == nil && channel != nil && channel.Name != "" {
			return channel
		}
	}
	channel, err := c.session.Channel(channelID)
	if err != nil || channel == nil {
		return nil
	}
	if channel.Name == "" {
		return nil
	}
	return channel
}

func (c *Client) resolveGuildMember(guildID, userID string) *discordgo.Member {
	if c.session == nil {
		return nil
	}
	if c.session.State != nil {
		member, err := c.session.State.Member(guildID, userID)
		if err == nil && member != nil {
			return member
		}
	}
	member, err := c.session.GuildMember(guildID, userID)
	if err != nil {
		return nil
	}
	return member
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

func (c *Client) Run() error {
	select {}
}
