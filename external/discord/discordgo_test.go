package discord

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/koebako/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func failOnREST(t *testing.T) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestResolveChannelName_UsesStateCacheFirst(t *testing.T) {
	s := newTestSession(t, failOnREST(t))
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.ChannelAdd(&discordgo.Channel{ID: "vc-1", GuildID: "guild-1", Name: "General", Type: discordgo.ChannelTypeGuildVoice}); err != nil {
		t.Fatalf("failed to add channel to state: %v", err)
	}

	c := &Client{session: s}
	if got := c.ResolveChannelName("vc-1"); got != "General" {
		t.Fatalf("expected General, got %q", got)
	}
}

func TestResolveChannelName_FallsBackToRESTThenID(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if strings.HasSuffix(req.URL.Path, "/channels/vc-rest") {
			return jsonResponse(http.StatusOK, `{"id":"vc-rest","guild_id":"guild-1","name":"Gaming","type":2}`), nil
		}
		return jsonResponse(http.StatusNotFound, `{"message":"Unknown Channel","code":10003}`), nil
	})

	c := &Client{session: s}
	if got := c.ResolveChannelName("vc-rest"); got != "Gaming" {
		t.Fatalf("expected Gaming, got %q", got)
	}
	if got := c.ResolveChannelName("vc-missing"); got != "vc-missing" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}

func TestResolveMember_PrefersNickFromState(t *testing.T) {
	s := newTestSession(t, failOnREST(t))
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.MemberAdd(&discordgo.Member{
		GuildID: "guild-1",
		Nick:    "Ali",
		User:    &discordgo.User{ID: "user-1", Username: "alice", GlobalName: "Alice"},
	}); err != nil {
		t.Fatalf("failed to add member to state: %v", err)
	}

	c := &Client{session: s}
	got := c.ResolveMember("guild-1", "user-1")
	if got.DisplayName != "Ali" || got.UserID != "user-1" || got.IsBot {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if got.AvatarURL == "" {
		t.Fatal("expected a default avatar url")
	}
}

func TestResolveMember_FallsBackToGlobalNameViaREST(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if strings.HasSuffix(req.URL.Path, "/guilds/guild-1/members/user-2") {
			return jsonResponse(http.StatusOK, `{"user":{"id":"user-2","username":"bob","global_name":"Bobby"},"roles":[]}`), nil
		}
		t.Fatalf("unexpected request path: %s", req.URL.Path)
		return nil, nil
	})

	c := &Client{session: s}
	got := c.ResolveMember("guild-1", "user-2")
	if got.DisplayName != "Bobby" {
		t.Fatalf("expected Bobby, got %+v", got)
	}
}

func TestResolveMember_ReturnsIDWhenUnknown(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"Unknown User","code":10013}`), nil
	})

	c := &Client{session: s}
	got := c.ResolveMember("guild-1", "user-3")
	if got.DisplayName != "user-3" || got.AvatarURL != "" {
		t.Fatalf("expected id fallback, got %+v", got)
	}
}

func TestToVoiceStateEvent(t *testing.T) {
	state := func(channelID string) *discordgo.VoiceState {
		return &discordgo.VoiceState{GuildID: "guild-1", UserID: "user-1", ChannelID: channelID}
	}
	cases := []struct {
		name   string
		update *discordgo.VoiceStateUpdate
		want   discordpkg.VoiceStateEvent
		ok     bool
	}{
		{
			name:   "join",
			update: &discordgo.VoiceStateUpdate{VoiceState: state("vc-1")},
			want:   discordpkg.VoiceStateEvent{GuildID: "guild-1", UserID: "user-1", AfterChannelID: "vc-1"},
			ok:     true,
		},
		{
			name:   "move",
			update: &discordgo.VoiceStateUpdate{VoiceState: state("vc-2"), BeforeUpdate: state("vc-1")},
			want:   discordpkg.VoiceStateEvent{GuildID: "guild-1", UserID: "user-1", BeforeChannelID: "vc-1", AfterChannelID: "vc-2"},
			ok:     true,
		},
		{
			name:   "leave",
			update: &discordgo.VoiceStateUpdate{VoiceState: state(""), BeforeUpdate: state("vc-2")},
			want:   discordpkg.VoiceStateEvent{GuildID: "guild-1", UserID: "user-1", BeforeChannelID: "vc-2"},
			ok:     true,
		},
		{
			name:   "mute toggle",
			update: &discordgo.VoiceStateUpdate{VoiceState: state("vc-1"), BeforeUpdate: state("vc-1")},
		},
		{
			name:   "no state",
			update: &discordgo.VoiceStateUpdate{},
		},
	}
	for _, tc := range cases {
		got, ok := toVoiceStateEvent(tc.update)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got %+v ok=%v, want %+v ok=%v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseCommandOptions(t *testing.T) {
	integers, users := parseCommandOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "limit", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(25)},
		{Name: "member", Type: discordgo.ApplicationCommandOptionUser, Value: "user-9"},
		nil,
	})
	if integers["limit"] != 25 {
		t.Fatalf("unexpected integer options: %+v", integers)
	}
	if users["member"] != "user-9" {
		t.Fatalf("unexpected user options: %+v", users)
	}
}

func TestToMessageEmbed(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := toMessageEmbed(discordpkg.Embed{
		Title:         "Voice Update: Joined",
		Description:   "desc",
		Color:         0x2ecc71,
		AuthorName:    "Alice",
		AuthorIconURL: "https://cdn.example/a.png",
		Timestamp:     ts,
	})
	if got.Title != "Voice Update: Joined" || got.Color != 0x2ecc71 || got.Timestamp != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected embed: %+v", got)
	}
	if got.Author == nil || got.Author.Name != "Alice" || got.Thumbnail != nil {
		t.Fatalf("unexpected author/thumbnail: %+v %+v", got.Author, got.Thumbnail)
	}
}

func TestSameApplicationCommand(t *testing.T) {
	def := discordpkg.SlashCommandDefinition{
		Name:        "vchistory",
		Description: "history",
		Options: []discordpkg.SlashCommandOption{
			{Name: "limit", Description: "n", Type: discordpkg.SlashCommandOptionInteger, MinValue: 1, MaxValue: 50},
		},
	}
	want := toApplicationCommand(def)
	if !sameApplicationCommand(toApplicationCommand(def), want) {
		t.Fatal("expected identical definitions to match")
	}

	def.Options[0].MaxValue = 100
	if sameApplicationCommand(toApplicationCommand(def), want) {
		t.Fatal("expected changed max value to require an edit")
	}

	noOptions := &discordgo.ApplicationCommand{Name: "vchistory", Description: "history"}
	if sameApplicationCommand(noOptions, want) {
		t.Fatal("expected missing options to require an edit")
	}
}
