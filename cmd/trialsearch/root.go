package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"trialsearch/internal/backend/memory"
	"trialsearch/internal/backend/trials"
	"trialsearch/internal/config"
	"trialsearch/internal/domain"
	"trialsearch/internal/logging"
	"trialsearch/internal/service"
	"trialsearch/internal/tui"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "trialsearch",
	Short: "Search clinical trials from the terminal",
	Long: `trialsearch - find clinical trials from the terminal
  - type a topic and press enter
  - tab changes how many results to request, ctrl+x toggles exact match
  - pgup/pgdn move between result pages`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML or TOML config file (default ./config.yaml or ~/.config/trialsearch/config.yaml)")
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgPath)
}

// newSearcher assembles the configured backend.
func newSearcher(cfg *config.AppConfig, logger *slog.Logger) (domain.Searcher, error) {
	switch cfg.Backend.Type {
	case "http", "":
		return trials.NewClient(trials.Config{
			BaseURL:  cfg.Backend.BaseURL,
			Endpoint: cfg.Backend.Endpoint,
			Timeout:  time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
			Logger:   logger,
		}), nil
	case "file":
		st, err := memory.Load(cfg.Backend.File)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend.Type)
	}
}

// newSession loads config, logging and the backend and returns a ready controller.
func newSession(opts ...service.Option) (*config.AppConfig, *service.Controller, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, closer, err := logging.Open(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}
	searcher, err := newSearcher(cfg, logger)
	if err != nil {
		_ = closer.Close()
		return nil, nil, nil, err
	}
	session, err := service.NewController(searcher, cfg.Search.PageSize, append([]service.Option{service.WithLogger(logger)}, opts...)...)
	if err != nil {
		_ = closer.Close()
		return nil, nil, nil, err
	}
	return cfg, session, closer, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, session, closer, err := newSession()
	if err != nil {
		return err
	}
	defer closer.Close()

	m := tui.New(session, tui.Options{ResultCount: cfg.Search.DefaultResultCount, ExactMatch: cfg.Search.ExactMatch})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
