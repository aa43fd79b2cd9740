package opts

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/catalog"
	"github.com/booklore-app/booknamer/pkg/config"
	"github.com/booklore-app/booknamer/pkg/log"
	"github.com/booklore-app/booknamer/pkg/operation"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Async      bool
	Out        io.Writer
}

// 📝 Logger returns the console logger for command output
func (o *RootOpts) Logger(ctx context.Context) *log.Logger {
	return log.NewWithZerolog(o.Out, *zerolog.Ctx(ctx))
}

// 🎯 LoadConfig loads the configuration file named by --config
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// 🗄️ Open loads the configuration and opens its catalog. The caller closes the catalog.
func (o *RootOpts) Open(ctx context.Context) (*config.Config, *catalog.Catalog, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Open(ctx, cfg.Catalog)
	if err != nil {
		return nil, nil, errors.Errorf("opening catalog: %w", err)
	}
	return cfg, cat, nil
}

// 🏃 Runner returns an operation runner honouring --async
func (o *RootOpts) Runner(ctx context.Context) *operation.Runner {
	return operation.NewRunner(zerolog.Ctx(ctx), o.Async)
}

// 🔧 Operation returns operation options for cfg and cat
func (o *RootOpts) Operation(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, dryRun bool) operation.Options {
	return operation.Options{
		Config: cfg,
		Store:  cat,
		Logger: o.Logger(ctx),
		Out:    o.Out,
		DryRun: dryRun,
	}
}
