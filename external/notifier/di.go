package notifier

import (
	"github.com/foxseedlab/koebako/internal/config"
	"github.com/foxseedlab/koebako/internal/discord"
	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (notifier.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		var fanout Fanout
		if cfg.DiscordLogChannelID != "" {
			dc := do.MustInvoke[discord.Client](i)
			fanout = append(fanout, NewDiscordEmbedNotifier(dc, cfg.DiscordGuildID, cfg.DiscordLogChannelID))
		}
		if cfg.NotifyWebhookURL != "" {
			fanout = append(fanout, NewHTTPWebhookNotifier(cfg.NotifyWebhookURL))
		}
		return fanout, nil
	})
}
