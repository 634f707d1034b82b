package httpapi

import (
	"github.com/foxseedlab/dailynotes/internal/notify"
	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/summarizer"
	"github.com/foxseedlab/dailynotes/internal/tracking"
	"github.com/foxseedlab/dailynotes/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		return NewServer(Deps{
			Versions:     do.MustInvoke[*version.Service](i),
			Notes:        do.MustInvoke[*notify.Service](i),
			Store:        do.MustInvoke[repository.Repository](i),
			Tracking:     do.MustInvoke[tracking.Client](i),
			LLMProviders: do.MustInvoke[*summarizer.Registry](i).Providers(),
			Registry:     do.MustInvoke[*prometheus.Registry](i),
		}), nil
	})
}
