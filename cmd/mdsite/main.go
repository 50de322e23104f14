// cmd/mdsite/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"mdsite/internal/builder"
	"mdsite/internal/config"
	"mdsite/internal/scaffold"
	"mdsite/internal/server"
	"mdsite/internal/util"
)

// Globals are the site options shared by every command.
type Globals struct {
	Template       string `short:"t" name:"template" default:"${template}" help:"Master page template each html page is built from, relative to the root."`
	RootDir        string `short:"r" name:"root_dir" default:"${root_dir}" help:"Root directory of the site files."`
	InputDir       string `short:"i" name:"input_dir" default:"${input_dir}" help:"Directory of markdown files."`
	OutputDir      string `short:"o" name:"output_dir" default:"${output_dir}" help:"Output directory for the html files."`
	SingleFile     string `short:"s" name:"single_file" help:"Only generate this page, given relative to the input directory."`
	SiteSuffix     string `short:"S" name:"site_suffix" default:"${site_suffix}" help:"Appended to the title of every page."`
	SitePrefix     string `short:"P" name:"site_prefix" help:"Prepended to the title of every page."`
	Verbose        bool   `short:"v" name:"verbose" help:"Enable debug logging."`
	Config         string `short:"c" name:"config" default:"${config}" help:"Optional YAML file with option defaults, relative to the root."`
	StaticDir      string `name:"static_dir" help:"Directory copied into the output directory, relative to the root."`
	Sanitize       bool   `name:"sanitize" help:"Sanitize page content with a UGC policy."`
	HighlightStyle string `name:"highlight_style" default:"${highlight_style}" help:"Chroma style used for fenced code."`
}

type CLI struct {
	Globals

	Build BuildCmd `cmd:"" default:"withargs" help:"Generate the site (default)."`
	Serve ServeCmd `cmd:"" help:"Build, then serve the output directory and rebuild on change."`
	Init  InitCmd  `cmd:"" help:"Create a starter site."`
	New   NewCmd   `cmd:"" help:"Create a markdown page and its metadata sidecar."`
}

type BuildCmd struct{}

func (c *BuildCmd) Run(opts config.Options, logger *slog.Logger) error {
	b := builder.New(opts, logger)
	if opts.SingleFile != "" {
		return b.BuildSingle(opts.SingleFile)
	}
	pageCount, err := b.BuildSite()
	if err != nil {
		return fmt.Errorf("site generation failed: %w", err)
	}
	logger.Info("build finished", "pages", pageCount, "output", opts.OutputPath())
	return nil
}

type ServeCmd struct {
	Port int `default:"1313" help:"Port for the local development server."`
}

func (c *ServeCmd) Run(opts config.Options, logger *slog.Logger, src *optionSource) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, server.Config{
		Addr:       fmt.Sprintf(":%d", c.Port),
		OutputDir:  opts.OutputPath(),
		WatchPaths: []string{opts.InputPath(), opts.TemplatePath(), src.configPath},
		Build: func() error {
			// Re-read the config file so edits to it apply without a restart.
			current, err := src.resolve()
			if err != nil {
				return err
			}
			_, err = builder.New(current, logger).BuildSite()
			return err
		},
		Logger: logger,
	})
}

type InitCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Directory to create the site in."`
}

func (c *InitCmd) Run(logger *slog.Logger) error {
	return scaffold.CreateNewSite(c.Dir, logger)
}

type NewCmd struct {
	Page  string `arg:"" help:"Page path relative to the input directory, e.g. guides/setup."`
	Title string `arg:"" help:"Page title."`
}

func (c *NewCmd) Run(opts config.Options, logger *slog.Logger) error {
	return scaffold.CreateNewPage(opts, c.Page, c.Title, logger)
}

func (g Globals) options() config.Options {
	return config.Options{
		Template:       g.Template,
		RootDir:        g.RootDir,
		InputDir:       g.InputDir,
		OutputDir:      g.OutputDir,
		SingleFile:     g.SingleFile,
		SiteSuffix:     g.SiteSuffix,
		SitePrefix:     g.SitePrefix,
		StaticDir:      g.StaticDir,
		Sanitize:       g.Sanitize,
		HighlightStyle: g.HighlightStyle,
		Verbose:        g.Verbose,
	}
}

// optionSource remembers where the options came from so they can be
// resolved again after the config file changes.
type optionSource struct {
	flags      config.Options
	explicit   map[string]bool
	configPath string
}

// resolve overlays the config file onto the flag values. Flags given on the
// command line win over the file.
func (s *optionSource) resolve() (config.Options, error) {
	cfg, found, err := config.LoadOptionalSiteConfig(s.configPath)
	if err != nil {
		return config.Options{}, err
	}
	if !found {
		return s.flags, nil
	}
	return cfg.Apply(s.flags, s.explicit), nil
}

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags(ctx *kong.Context) map[string]bool {
	explicit := make(map[string]bool)
	for _, p := range ctx.Path {
		if p.Flag != nil && !p.Resolved {
			explicit[p.Flag.Name] = true
		}
	}
	return explicit
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	defaults := config.Defaults()
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mdsite"),
		kong.Description("Generates html pages from markdown files with json metadata."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"template":        defaults.Template,
			"root_dir":        defaults.RootDir,
			"input_dir":       defaults.InputDir,
			"output_dir":      defaults.OutputDir,
			"site_suffix":     defaults.SiteSuffix,
			"config":          config.DefaultConfig,
			"highlight_style": defaults.HighlightStyle,
		},
	)

	logger := newLogger(cli.Verbose)
	slog.SetDefault(logger)

	src := &optionSource{
		flags:      cli.options(),
		explicit:   explicitFlags(ctx),
		configPath: filepath.Join(cli.RootDir, cli.Config),
	}
	opts, err := src.resolve()
	if err == nil {
		err = ctx.Run(opts, logger, src)
	}
	if err == nil {
		return
	}

	var werr *util.WriteError
	if errors.As(err, &werr) {
		logger.Error("An unexpected error occurred while trying to write a file. Exiting...", "error", err)
		os.Exit(-1)
	}
	logger.Error("operation failed", "error", err)
	os.Exit(1)
}
