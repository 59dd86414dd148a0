package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gina-ai/gina/internal/ai"
	"github.com/gina-ai/gina/internal/ai/tools"
	"github.com/gina-ai/gina/internal/config"
	"github.com/gina-ai/gina/internal/persona"
	"github.com/gina-ai/gina/internal/tools/spotify"
	"github.com/gina-ai/gina/internal/tools/todo"
)

var (
	// Version is set via -ldflags at build time.
	Version = "dev"
	// Commit is set via -ldflags at build time.
	Commit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "version":
		fmt.Printf("gina %s (%s)\n", Version, Commit)
	default:
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gina

Usage:
  gina run [flags]
  gina version

Commands:
  run         Start an interactive conversation using the local config file.
  version     Print build information.

`)
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultConfigPath(), "Config file path")
	personaName := fs.String("persona", "", "Persona to apply (overrides the config default)")
	model := fs.String("model", "", "Model to use (overrides the config default)")
	_ = fs.Parse(args)

	cfg, err := config.Load(filepath.Clean(*cfgPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	creds, err := config.LoadCredentials(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	provider, err := newProvider(cfg, creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init provider: %v\n", err)
		os.Exit(1)
	}

	registry := tools.NewRegistry(log)
	sources, err := buildSources(log, cfg, creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init tools: %v\n", err)
		os.Exit(1)
	}
	if err := registry.RegisterAll(sources); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register tools: %v\n", err)
		os.Exit(1)
	}

	var personas *persona.Store
	if path := strings.TrimSpace(cfg.PersonasPath); path != "" {
		personas, err = persona.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load personas: %v\n", err)
			os.Exit(1)
		}
	}

	effectiveModel := strings.TrimSpace(*model)
	if effectiveModel == "" {
		effectiveModel = cfg.EffectiveModel()
	}

	assistant, err := ai.New(ai.Options{
		Log:       log,
		Provider:  provider,
		Registry:  registry,
		Personas:  personas,
		Model:     effectiveModel,
		MaxRounds: cfg.EffectiveMaxRounds(),
		OnTextDelta: func(delta string) {
			fmt.Print(delta)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init assistant: %v\n", err)
		os.Exit(1)
	}

	effectivePersona := strings.TrimSpace(*personaName)
	if effectivePersona == "" {
		effectivePersona = cfg.DefaultPersona
	}
	if effectivePersona != "" {
		assistant.SetPersona(effectivePersona)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	log.Info("gina started",
		"provider", cfg.EffectiveProvider(),
		"model", effectiveModel,
		"tools", registry.Len(),
	)

	printWelcomeBanner(os.Stdout, welcomeBannerOptions{
		Version:   Version,
		Provider:  cfg.EffectiveProvider(),
		Model:     effectiveModel,
		Persona:   effectivePersona,
		ToolCount: registry.Len(),
	})

	if err := repl(ctx, assistant); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "gina exited with error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(strings.TrimSpace(cfg.LogFormat)) == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func newProvider(cfg *config.Config, creds config.Credentials) (ai.Provider, error) {
	switch cfg.EffectiveProvider() {
	case config.ProviderAnthropic:
		return ai.NewAnthropicProvider(creds.AnthropicAPIKey, "")
	default:
		return ai.NewOpenAIProvider(creds.OpenAIAPIKey, "")
	}
}

func buildSources(log *slog.Logger, cfg *config.Config, creds config.Credentials) ([]tools.Source, error) {
	var sources []tools.Source
	if cfg.Spotify.Enabled {
		deviceID := creds.SpotifyDeviceID
		if deviceID == "" {
			deviceID = cfg.Spotify.DefaultDeviceID
		}
		client, err := spotify.New(spotify.Options{
			Log:             log,
			BaseURL:         cfg.Spotify.EffectiveBaseURL(),
			AccessToken:     creds.SpotifyAccessToken,
			DefaultDeviceID: deviceID,
		})
		if err != nil {
			return nil, fmt.Errorf("spotify: %w", err)
		}
		sources = append(sources, client.Source())
	}
	if cfg.Graph.Enabled {
		client, err := todo.New(todo.Options{
			Log:         log,
			Endpoint:    cfg.Graph.EffectiveEndpoint(),
			AccessToken: creds.GraphAccessToken,
		})
		if err != nil {
			return nil, fmt.Errorf("todo: %w", err)
		}
		sources = append(sources, client.Source())
	}
	return sources, nil
}

// repl reads user turns from stdin and streams assistant replies to stdout.
// Deltas already print incrementally via OnTextDelta; the return value is
// only consulted for the trailing newline and error handling.
func repl(ctx context.Context, assistant *ai.Assistant) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		_, err := assistant.SendMessage(ctx, ai.RoleUser, line)
		fmt.Println()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var roundErr *ai.RoundLimitError
			if errors.As(err, &roundErr) {
				fmt.Fprintf(os.Stderr, "conversation stopped: %v\n", err)
				continue
			}
			return err
		}
	}
}
