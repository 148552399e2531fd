package cmd

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/chaindemo/internal/app"
	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flags"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/log"
	"github.com/zjrosen/chaindemo/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	cfgPath   string
	cfgErr    error
	cfg       config.Config
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "chaindemo",
	Short: "A scripted terminal demo of AI contract generation and deployment",
	Long: `chaindemo walks an audience through a scripted story: an AI assistant
writes a smart contract, OnchainOS issues a session key, and the contract is
deployed with simulated progress and results. Nothing is compiled or sent to
a chain; every output is canned.

Keys: g generate, d deploy, space advance, r restart, ? presenter tips.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/chaindemo/config.yaml)")
	pf.BoolVar(&debugFlag, "debug", false,
		"write debug logs (also CHAINDEMO_DEBUG, path from CHAINDEMO_LOG)")
	pf.String("payload", "",
		"result preset: "+strings.Join(flow.PayloadNames(), ", "))
	pf.Float64("speed", 0,
		"divide every delay by this factor (2 runs twice as fast)")

	rootCmd.Flags().Bool("autoplay", false, "run generate and deploy without waiting for keys")
	rootCmd.Flags().Bool("legacy-reset", false, "let timers started before a restart keep firing")
	rootCmd.Flags().Bool("tips", false, "open presenter tips on startup")
	rootCmd.Flags().Bool("no-mouse", false, "disable mouse support")
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .chaindemo/config.yaml (current directory)
		// 2. ~/.config/chaindemo/config.yaml (user config)
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			v.SetConfigFile(config.DefaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "chaindemo"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		switch {
		case missing && cfgFile != "":
			if writeErr := config.WriteDefaultConfig(cfgFile); writeErr == nil {
				_ = v.ReadInConfig()
			}
		case missing:
			// No config file found anywhere - create default at .chaindemo/config.yaml
			if writeErr := config.WriteDefaultConfig(config.DefaultConfigPath); writeErr == nil {
				v.SetConfigFile(config.DefaultConfigPath)
				_ = v.ReadInConfig()
			}
		default:
			cfgErr = fmt.Errorf("reading config: %w", err)
		}
	}

	cfgPath = v.ConfigFileUsed()
	loaded, err := config.Unmarshal(v)
	if err != nil {
		cfgErr = err
		return
	}
	cfg = loaded
}

// resolveConfig applies command line overrides and validates the result.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	if cfgErr != nil {
		return config.Config{}, cfgErr
	}
	resolved := cfg
	resolved.Flags = maps.Clone(cfg.Flags)
	if resolved.Flags == nil {
		resolved.Flags = map[string]bool{}
	}

	if cmd.Flags().Changed("payload") {
		resolved.Demo.Payload, _ = cmd.Flags().GetString("payload")
	}
	if cmd.Flags().Changed("speed") {
		resolved.Demo.Speed, _ = cmd.Flags().GetFloat64("speed")
	}
	for flag, name := range map[string]string{
		"autoplay":     flags.FlagAutoplay,
		"legacy-reset": flags.FlagLegacyReset,
		"tips":         flags.FlagPresenterTips,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			resolved.Flags[name], _ = cmd.Flags().GetBool(flag)
		}
	}
	if noMouse, _ := cmd.Flags().GetBool("no-mouse"); noMouse {
		resolved.UI.Mouse = false
	}

	if err := config.Validate(resolved); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return resolved, nil
}

// initLogging enables file logging when --debug or CHAINDEMO_DEBUG is set.
// CHAINDEMO_LOG_LEVEL raises the minimum level.
// The returned cleanup is always safe to call.
func initLogging(prefix string) (func(), bool, error) {
	debug := os.Getenv("CHAINDEMO_DEBUG") != "" || debugFlag
	if !debug {
		return func() {}, false, nil
	}
	logPath := os.Getenv("CHAINDEMO_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return func() {}, false, fmt.Errorf("initializing logging: %w", err)
	}
	if name := os.Getenv("CHAINDEMO_LOG_LEVEL"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			log.Warn(log.CatConfig, "Ignoring CHAINDEMO_LOG_LEVEL", "error", err)
		} else {
			log.SetMinLevel(level)
		}
	}
	log.Info(log.CatConfig, "chaindemo starting", "version", version, "logPath", logPath, "config", cfgPath)
	return cleanup, true, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	resolved, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	cleanupLog, debug, err := initLogging("chaindemo")
	if err != nil {
		return err
	}
	defer cleanupLog()

	svc := openServices(cmd.Context(), resolved)
	defer svc.Close()

	var w *watcher.Watcher
	if cfgPath != "" {
		w, err = watcher.New(watcher.DefaultConfig(cfgPath))
		if err != nil {
			log.ErrorErr(log.CatWatcher, "Config watcher unavailable", err, "path", cfgPath)
		} else if err := w.Start(); err != nil {
			log.ErrorErr(log.CatWatcher, "Config watcher failed to start", err, "path", cfgPath)
			w = nil
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	zone.NewGlobal()
	model := app.New(app.Options{
		Config:     resolved,
		ConfigPath: cfgPath,
		Debug:      debug,
		Observers:  svc.Observers(),
		Watcher:    w,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if resolved.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(&model, opts...)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
