package presence

import (
	"github.com/foxseedlab/koebako/internal/config"
	"github.com/foxseedlab/koebako/internal/discord"
	"github.com/foxseedlab/koebako/internal/metrics"
	"github.com/foxseedlab/koebako/internal/notifier"
	"github.com/foxseedlab/koebako/internal/repository"
	"github.com/foxseedlab/koebako/internal/voicetime"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*voicetime.Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		backend := do.MustInvoke[repository.Backend](i)
		return voicetime.NewEngine(backend, voicetime.Options{
			Location:     cfg.Location(),
			FlushTimeout: cfg.FlushTimeout(),
			Notifier:     do.MustInvoke[notifier.Notifier](i),
			Metrics:      do.MustInvoke[metrics.Recorder](i),
		}), nil
	})
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		engine := do.MustInvoke[*voicetime.Engine](i)
		return NewManager(cfg, dc, engine), nil
	})
}
