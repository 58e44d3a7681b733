package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/logging"
	"github.com/five82/bookshelf/internal/prefs"
	"github.com/five82/bookshelf/internal/state"
	"github.com/five82/bookshelf/internal/ui"
)

// Options configure the bookshelf application. Non-empty fields override the
// config file and environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/bookshelf/prefs.toml
	APIURL     string
	LogLevel   string
	LogFile    string
}

// Runtime holds the dependencies shared by the TUI and the CLI commands.
type Runtime struct {
	Config     config.Config
	Logger     *zap.Logger
	Client     *books.Client
	Store      *state.Store
	Controller *catalog.Controller
	Formatter  catalog.Formatter

	closeLog func() error
}

// NewRuntime loads configuration and wires the logger, API client, store and
// controller.
func NewRuntime(opts Options) (*Runtime, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		cfg.LogFile = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := books.NewClient(cfg.APIURL,
		books.WithTimeout(cfg.Timeout),
		books.WithLogger(logger.Named("api")),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}
	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Store:      store,
		Controller: catalog.NewController(client, store, logger.Named("catalog")),
		Formatter:  catalog.NewFormatter(cfg.Locale),
		closeLog:   closeLog,
	}, nil
}

// Close flushes and closes the log file.
func (r *Runtime) Close() error {
	if r == nil || r.closeLog == nil {
		return nil
	}
	return r.closeLog()
}

// Run boots the bookshelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := NewRuntime(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	rt.Logger.Info("starting bookshelf",
		zap.String("api_url", rt.Client.BaseURL()),
		zap.Duration("refresh_interval", rt.Config.RefreshInterval),
	)

	// The first list request is issued by the UI's Init.
	pollCtx, stopPoller := context.WithCancel(ctx)
	done := StartPoller(pollCtx, rt.Controller, rt.Config.RefreshInterval, rt.Logger.Named("poller"))
	defer func() {
		stopPoller()
		<-done
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: rt.Controller,
		Formatter:  rt.Formatter,
		Logger:     rt.Logger.Named("ui"),
		APIURL:     rt.Client.BaseURL(),
		Prefs:      prefs.Load(prefsPath),
		PrefsPath:  prefsPath,
	})
}
