package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/config"
	"github.com/mixxbar/mixx/pkg/logging"
	"github.com/mixxbar/mixx/pkg/session"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath  string
	backendFlag string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "mixx",
	Short: "Mixx - find cocktails you can make",
	Long: `Mixx is a terminal client for the Mixx cocktail service. Browse and search
cocktails, keep track of the ingredients in your bar and get recommendations
for what to buy next.

Run without a command to open the interactive interface.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.SetVersionTemplate("mixx version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		"Backend URL, overrides backend_url from the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}

// app is what every command needs: configuration, logger, session and a
// client bound to that session.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *session.Store
	sess   *session.Session
	client *api.Client
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		cfg.BackendURL = backendFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: verbose})
	if err != nil {
		return nil, err
	}

	store, err := session.OpenStore(cfg.SessionPath())
	if err != nil {
		logger.Sync()
		return nil, err
	}
	sess, err := session.New(ctx, store)
	if err != nil {
		store.Close()
		logger.Sync()
		return nil, fmt.Errorf("load session: %w", err)
	}

	client, err := api.NewClient(cfg.BackendURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
		api.WithIdentity(sess),
		api.OnUnauthorized(func() {
			logger.Info("session rejected by backend, logging out")
			if err := sess.Clear(context.Background()); err != nil {
				logger.Warn("clear session", zap.Error(err))
			}
		}),
	)
	if err != nil {
		store.Close()
		logger.Sync()
		return nil, err
	}

	logger.Debug("mixx started",
		zap.String("backend", cfg.BackendURL),
		zap.String("session", store.Path()),
		zap.Bool("logged_in", sess.LoggedIn()))
	return &app{cfg: cfg, logger: logger, store: store, sess: sess, client: client}, nil
}

// Close releases the session database and flushes the log.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close session store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// withApp wraps a command body with app setup and teardown.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := fn(cmd, args, a); err != nil {
			a.logger.Debug("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
			return err
		}
		return nil
	}
}
