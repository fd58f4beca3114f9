// Package runtime provides application runtime context for pfsheet.
package runtime

import (
	"github.com/manav03panchal/pfsheet/internal/config"
	"github.com/manav03panchal/pfsheet/internal/errors"
	"github.com/manav03panchal/pfsheet/internal/export"
	"github.com/manav03panchal/pfsheet/internal/output"
	"github.com/manav03panchal/pfsheet/internal/storage"
	"github.com/manav03panchal/pfsheet/internal/validate"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	Formatter *output.Formatter

	Repo     *storage.TimesheetRepo
	Exporter *export.Service

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	Config    *config.Config
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Config:    config.Default(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New creates a new runtime context: it opens the configured backend and
// wires the store, the export codec and the export writer.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	codec := export.DefaultCodec()
	if cfg.Export.Template != "" {
		header, err := export.LoadHeader(cfg.Export.Template)
		if err != nil {
			return nil, err
		}
		if codec, err = export.NewCodec(header); err != nil {
			return nil, err
		}
	}

	path := cfg.DatabasePath()
	if cfg.InMemory() {
		path = storage.MemoryDSN
	}
	backend, err := storage.OpenBackend(cfg.Storage.Backend, path)
	if err != nil {
		err = errors.WithContextf(err, "open %s store at %s", cfg.Storage.Backend, path)
		if opts.Debug {
			err = errors.WithStack(err)
		}
		return nil, err
	}

	repo := storage.NewTimesheetRepo(backend, validate.NewNormalizer(loc))
	writer := export.NewWriter(cfg.ExportDir(), codec)

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		Config:    cfg,
		Formatter: formatter,
		Repo:      repo,
		Exporter:  export.NewService(repo, writer),
		Debug:     opts.Debug,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.Repo != nil {
		return c.Repo.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsPlain returns true if output format is plain.
func (c *Context) IsPlain() bool {
	return c.Formatter.Format == output.FormatPlain
}

// DefaultLimit returns the listing page size used when none is given.
func (c *Context) DefaultLimit() int {
	return c.Config.Query.DefaultLimit
}
