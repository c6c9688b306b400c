package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/ptoctl/config"
	"github.com/s0up4200/ptoctl/credstore"
	"github.com/s0up4200/ptoctl/rippling"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	store     credstore.Store
	storePath string
	client    *rippling.Client

	version   = "dev"
	buildTime = "unknown"
)

// errNotLoggedIn is returned by commands that need a stored session
var errNotLoggedIn = errors.New("not logged in: run 'ptoctl login --token <token>' first")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ptoctl",
	Short: "A command line client for the Rippling PTO API",
	Long: `ptoctl talks to the Rippling PTO API on your behalf.

It keeps an authenticated session with its tenant context (company and role)
on disk, lists the holiday calendar and your leave requests, and filters them
with expressions such as 'Status == "APPROVED" and Days > 2'.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the build information reported by the version and update commands
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if closeErr := closeStore(); closeErr != nil {
		logger.Warn().Err(closeErr).Msg("Failed to close credential store")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, then ~/.ptoctl/config.yaml)")
}

// initializeApp loads the configuration and builds the logger, credential store and API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if err := closeStore(); err != nil {
		return err
	}

	storePath, err = cfg.CredentialsPath()
	if err != nil {
		return err
	}

	store, err = credstore.New(cfg.Credentials.Store, storePath)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	client = rippling.New(cfg.BaseURL(), logger,
		rippling.WithTimeout(cfg.Rippling.Timeout),
		rippling.WithUserAgent("ptoctl/"+version),
	)

	logger.Debug().
		Str("environment", cfg.Rippling.Environment).
		Str("base_url", client.BaseURL()).
		Str("store", cfg.Credentials.Store).
		Str("store_path", storePath).
		Msg("Initialized")

	return nil
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	if err != nil {
		return fmt.Errorf("failed to close credential store: %w", err)
	}
	return nil
}

// restoreSession rebuilds the persisted session or reports that none exists
func restoreSession() (*rippling.Session, error) {
	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if !state.HasToken() {
		return nil, errNotLoggedIn
	}
	return rippling.FromState(client, state), nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	isTerminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
