package main

import (
	"codeberg.org/ongeul/ongeul/pkg/bridge"
	"codeberg.org/ongeul/ongeul/pkg/config"
	"codeberg.org/ongeul/ongeul/pkg/eventtap"
	"codeberg.org/ongeul/ongeul/pkg/indicator"
	"codeberg.org/ongeul/ongeul/pkg/jamo"
	"codeberg.org/ongeul/ongeul/pkg/layouts"
	"codeberg.org/ongeul/ongeul/pkg/metrics"
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"codeberg.org/ongeul/ongeul/pkg/statestore/json"
	"codeberg.org/ongeul/ongeul/pkg/statestore/memory"
	"codeberg.org/ongeul/ongeul/pkg/statestore/sqlite"
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const (
	queueSize        = 64
	tapWatchInterval = 5 * time.Second
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml (default: $XDG_CONFIG_HOME/ongeul/config.toml)")
	socketPath := flag.String("socket", "", "path to the input method shim socket")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log, err := newLogger(*debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *configPath == "" {
		*configPath, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("get config path: %w", err)
		}
	}
	loader := config.NewLoader(*configPath, log)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	backend, err := openStateBackend(cfg.Store, log)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	store, err := ongeul.NewAppStateStore(backend, m, log)
	if err != nil {
		return fmt.Errorf("create state store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorw("close state store", "error", err)
		}
	}()

	source := layouts.NewSource(cfg.LayoutsDir, log)
	for _, header := range source.List() {
		log.Debugw("layout available", "id", header.ID, "name", header.Name, "type", header.Type)
	}

	client, err := bridge.Connect(*socketPath)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close()

	queue := ongeul.NewQueue(queueSize, m, log)
	capture := bridge.NewCapture(client)
	tapCtx := eventtap.NewContext(capture, capture, queue, m, log)
	defer tapCtx.Teardown()

	notifier, err := newIndicator(cfg.Indicator, log)
	if err != nil {
		return fmt.Errorf("create indicator: %w", err)
	}
	defer notifier.Close()

	engine := jamo.NewEngine()
	router := ongeul.NewCompositionRouter(cfg.AutoCommitTargets, log)
	manager := ongeul.NewLayoutManager(engine, router, source, func() string {
		return loader.Config().Layout
	}, m, log)

	ctrl := ongeul.NewController(ongeul.ControllerOptions{
		Engine:    engine,
		Store:     store,
		Router:    router,
		Layouts:   manager,
		Notifier:  notifier,
		Registrar: tapCtx,
		Settings: func() ongeul.Settings {
			return loader.Config().Settings()
		},
		HoldWindow: cfg.HoldWindow(),
		Metrics:    m,
		Log:        log,
	})

	session := bridge.NewSession(client, capture, queue, ctrl, log)
	session.OnPermission = func(granted bool) {
		if granted {
			applyToggleKey(tapCtx, loader.Config(), log)
		}
	}

	loader.OnChange(func(cfg *config.Config) {
		router.SetAutoCommitTargets(cfg.AutoCommitTargets)
		applyToggleKey(tapCtx, cfg, log)
	})
	applyToggleKey(tapCtx, cfg, log)

	log.Infow("started ongeul", "config", loader.Path(), "layout", cfg.Layout, "toggle", cfg.ToggleKey)

	tasks := []task{
		{"run queue", queue.Run},
		{"process lines", session.ProcessLines},
		{"save state", func(ctx context.Context) error { return store.SaveLooper(ctx, cfg.SaveInterval()) }},
		{"watch capture", func(ctx context.Context) error { return tapCtx.Tap().Watch(ctx, tapWatchInterval) }},
		{"watch config", loader.Watch},
		{"systemd notify", systemdNotifyLoop},
	}
	if *metricsAddr != "" {
		tasks = append(tasks, task{"serve metrics", func(ctx context.Context) error {
			return serveMetrics(ctx, *metricsAddr, registry, log)
		}})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for _, t := range tasks {
		t := t
		go func() {
			defer wg.Done()
			err := t.fn(ctx)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", t.name, err)
			}
		}()
	}

	err = <-errChan
	cancel()
	wg.Wait()

	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		return nil
	case err != nil:
		return err
	}

	return nil
}

type task struct {
	name string
	fn   func(ctx context.Context) error
}

func openStateBackend(cfg config.StoreConfig, log *zap.SugaredLogger) (ongeul.StateBackend, error) {
	if cfg.Backend == config.StoreMemory {
		return memory.NewStateStore(), nil
	}

	path := cfg.Path
	if path == "" {
		var err error
		path, err = config.StatePath(cfg.Backend)
		if err != nil {
			return nil, err
		}
	}
	log.Infow("opening state store", "backend", cfg.Backend, "path", path)

	switch cfg.Backend {
	case config.StoreJSON:
		return json.NewStateStore(path, log)
	case config.StoreSQLite:
		return sqlite.NewStateStore(path, log)
	}

	return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
}

type notifier interface {
	ongeul.ModeNotifier
	Close() error
}

func newIndicator(cfg config.IndicatorConfig, log *zap.SugaredLogger) (notifier, error) {
	var backend indicator.Backend
	switch cfg.Backend {
	case config.IndicatorDBus:
		dbusBackend, err := indicator.NewDBusBackend(log)
		if err != nil {
			log.Warnw("desktop notifications unavailable, logging mode changes instead", "error", err)
			backend = indicator.NewLogBackend(log)
			break
		}
		backend = dbusBackend
	case config.IndicatorLog:
		backend = indicator.NewLogBackend(log)
	case config.IndicatorNone:
		return indicator.New(indicator.NopBackend{}, 0, log), nil
	default:
		return nil, fmt.Errorf("unknown indicator backend: %q", cfg.Backend)
	}

	return indicator.New(backend, time.Duration(cfg.HideAfterMs)*time.Millisecond, log), nil
}

func applyToggleKey(tapCtx *eventtap.Context, cfg *config.Config, log *zap.SugaredLogger) {
	if cfg.Settings().ToggleKey != ongeul.ToggleShiftSpace {
		tapCtx.Tap().Uninstall()
		return
	}

	err := tapCtx.Init()
	switch {
	case errors.Is(err, ongeul.ErrPermissionDenied):
		log.Info("global shift+space needs input capture permission, waiting for it")
	case err != nil:
		log.Warnw("install global shortcut", "error", err)
	}
}

func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry, log *zap.SugaredLogger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Infow("serving metrics", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return ctx.Err()
}

func systemdNotifyLoop(ctx context.Context) error {
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	_, _ = daemon.SdNotify(false, "STATUS=Composing Hangul")

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}
