// Package main provides the CLI entry point for framepeek.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/framepeek/pkg/adapters/astiavmedia"
	"github.com/user/framepeek/pkg/adapters/logger"
	"github.com/user/framepeek/pkg/adapters/mp4probe"
	"github.com/user/framepeek/pkg/adapters/sdlsurface"
	"github.com/user/framepeek/pkg/config"
	"github.com/user/framepeek/pkg/orchestrator"
	"github.com/user/framepeek/pkg/ports"
	"github.com/user/framepeek/pkg/stages/display"
	"github.com/user/framepeek/pkg/stages/locate"
	"github.com/user/framepeek/pkg/stages/present"
)

// SDL must be driven from the thread that initialised it.
func init() {
	runtime.LockOSThread()
}

// CLI defines the command-line interface.
type CLI struct {
	// Required arguments
	Source string `arg:"" help:"Path or URL of the media source."`
	Frame  int64  `arg:"" help:"Index of the frame to show (0-based)."`

	// Configuration
	Config string `short:"c" help:"YAML configuration file."`

	// Locate options (override config)
	Policy     *string `help:"Frame acceptance policy after the seek (first, exact)."`
	NoWarmScan bool    `help:"Skip decoding the whole source before seeking."`

	// Window options (override config)
	Width  *int    `short:"W" help:"Window width in pixels."`
	Height *int    `short:"H" help:"Window height in pixels."`
	Title  *string `help:"Window title."`

	// Logging options
	LogLevel *string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" help:"Suppress all log output."`

	Version kong.VersionFlag `help:"Show version information."`
}

var version = "dev"

func main() {
	cli := CLI{}

	parser, err := kong.New(&cli,
		kong.Name("framepeek"),
		kong.Description(l10n.T("Decode one frame of a video and show it in a window.")),
		kong.Vars{"version": l10n.F("framepeek version %s", version)},
	)
	if err != nil {
		panic(err)
	}
	localizeHelp(parser.Model.Node)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			_ = parseErr.Context.PrintUsage(false)
		}
		os.Exit(1)
	}

	if err := cli.Run(); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

// Run shows the requested frame until the window is closed.
func (cli *CLI) Run() error {
	cfg, err := cli.buildConfig()
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if cli.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	media := astiavmedia.New()
	surface := sdlsurface.New()
	prober := mp4probe.New()

	// Create orchestrator
	orch := orchestrator.New(
		media,
		surface,
		prober,
		locate.New(media, log),
		present.New(log),
		display.New(log),
		log,
	)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(cli.Source, cli.Frame))
	if err != nil {
		return err
	}

	if result.Found {
		log.Debug("Showed frame %d (%dx%d %s) for %d iterations",
			cli.Frame, result.FrameWidth, result.FrameHeight, result.PixelFormat, result.Iterations)
	}
	return nil
}

// buildConfig loads the config file, if any, and applies CLI overrides.
func (cli *CLI) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cli.Config != "" {
		loaded, err := config.LoadFromFile(cli.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cli.Policy != nil {
		cfg.Locate.Policy = *cli.Policy
	}
	if cli.NoWarmScan {
		cfg.Locate.WarmScan = false
	}
	if cli.Width != nil {
		cfg.Window.Width = *cli.Width
	}
	if cli.Height != nil {
		cfg.Window.Height = *cli.Height
	}
	if cli.Title != nil {
		cfg.Window.Title = *cli.Title
	}
	if cli.LogLevel != nil {
		cfg.LogLevel = *cli.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// localizeHelp translates the help text of every node, flag and argument.
func localizeHelp(node *kong.Node) {
	node.Help = l10n.T(node.Help)
	for _, flag := range node.Flags {
		flag.Help = l10n.T(flag.Help)
	}
	for _, arg := range node.Positional {
		arg.Help = l10n.T(arg.Help)
	}
	for _, child := range node.Children {
		localizeHelp(child)
	}
}
