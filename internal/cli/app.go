package cli

import (
	"io"
	"log/slog"

	"github.com/appdna/devtrack/internal/devcfg"
	"github.com/appdna/devtrack/internal/model"
	"github.com/appdna/devtrack/internal/router"
	"github.com/appdna/devtrack/internal/session"
	"github.com/appdna/devtrack/internal/sidecar"
	"github.com/appdna/devtrack/internal/sidecar/fsio"
	"github.com/appdna/devtrack/internal/view"
)

// App carries the per-invocation state commands run against. The model and
// stores are resolved lazily so commands that don't need a model (help,
// config diagnostics) work without one.
type App struct {
	In       io.Reader
	Log      *slog.Logger
	Sessions *session.Registry

	workDir    string
	modelFlag  string
	configFlag string

	env    *Env
	envErr error
	solved bool
}

// Env is the resolved environment: the model plus the layers over it.
type Env struct {
	Cfg      devcfg.Config
	Source   *model.FileSource
	Store    *sidecar.Store
	Composer *view.Composer
	Router   *router.Router
}

// Env resolves (once) the model path, loads the model, and wires the
// sidecar store, composer, and router over it.
func (a *App) Env() (*Env, error) {
	if a.solved {
		return a.env, a.envErr
	}

	a.solved = true
	a.env, a.envErr = a.resolve()

	return a.env, a.envErr
}

func (a *App) resolve() (*Env, error) {
	cfg, err := devcfg.Load(devcfg.LoadInput{
		WorkDir:           a.workDir,
		ModelPathOverride: a.modelFlag,
		ConfigPath:        a.configFlag,
	})
	if err != nil {
		return nil, err
	}

	source, err := model.Load(cfg.ModelPathAbs)
	if err != nil {
		return nil, err
	}

	store, err := sidecar.NewWithFS(cfg.ModelPathAbs, fsio.NewReal(), a.Log)
	if err != nil {
		return nil, err
	}

	return &Env{
		Cfg:      cfg,
		Source:   source,
		Store:    store,
		Composer: view.NewComposer(source, store, a.Log),
		Router:   router.New(source, store, a.Log),
	}, nil
}
