package notifier

import (
	"context"
	"fmt"

	"github.com/foxseedlab/koebako/internal/discord"
	"github.com/foxseedlab/koebako/internal/notifier"
)

type DiscordEmbedNotifier struct {
	client    discord.Client
	guildID   string
	channelID string
}

func NewDiscordEmbedNotifier(client discord.Client, guildID, channelID string) *DiscordEmbedNotifier {
	return &DiscordEmbedNotifier{client: client, guildID: guildID, channelID: channelID}
}

func (n *DiscordEmbedNotifier) Notify(_ context.Context, msg notifier.Notification) error {
	if n.channelID == "" {
		return nil
	}
	profile := n.client.ResolveMember(n.guildID, string(msg.MemberID))
	authorName := msg.MemberName
	if authorName == "" {
		authorName = profile.DisplayName
	}
	return n.client.SendChannelEmbed(n.channelID, discord.Embed{
		Title:         fmt.Sprintf("Voice Update: %s", msg.Action),
		Description:   msg.Description,
		Color:         msg.Color,
		AuthorName:    authorName,
		AuthorIconURL: profile.AvatarURL,
		Timestamp:     msg.At,
	})
}
