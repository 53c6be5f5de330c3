package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	cfgpkg "github.com/Ailysom/ras-chat/internal/config"
	"github.com/Ailysom/ras-chat/internal/runtime"
	httpserver "github.com/Ailysom/ras-chat/internal/server/http"
	chatsvc "github.com/Ailysom/ras-chat/internal/services/chat"
	pebblestore "github.com/Ailysom/ras-chat/internal/storage/pebble"
	logpkg "github.com/Ailysom/ras-chat/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	// ConfigPath points at a JSON config file; empty uses defaults.
	ConfigPath string
	HTTPAddr   string
	// AuditDir overrides the config's audit store directory when non-empty.
	AuditDir string
	Fsync    pebblestore.FsyncMode
	// Config, when set (Capacity > 0), takes precedence over ConfigPath.
	// Used by tests to skip file loading.
	Config cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers that
	// don't pass a signal-aware context still get clean shutdown.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if cfg.Capacity == 0 {
		loaded, err := cfgpkg.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
		cfgpkg.FromEnv(&cfg)
	}
	if opts.AuditDir != "" {
		cfg.AuditDir = opts.AuditDir
	}
	if cfg.AuditDir != "" && !filepath.IsAbs(cfg.AuditDir) {
		cfg.AuditDir = filepath.Join(cfgpkg.DefaultDataDir(), cfg.AuditDir)
	}

	rt, err := runtime.Open(runtime.Options{Config: cfg, Fsync: opts.Fsync})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Build process-wide logger from env; defaults: level=info, format=text.
	logCfg := &logpkg.Config{
		Level:  getenvDefault("RASCHAT_LOG_LEVEL", "info"),
		Format: getenvDefault("RASCHAT_LOG_FORMAT", "text"),
	}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(logCfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g. Pebble) to our logger.
	logpkg.RedirectStdLog(procLogger)

	procLogger.Info("Starting RasChat server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Int("capacity", cfg.Capacity),
		logpkg.Int("max_message_bytes", cfg.MaxMessageBytes),
		logpkg.Str("audit_dir", cfg.AuditDir),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
	)

	chat := chatsvc.NewWithLogger(rt, procLogger.With(logpkg.Component("chat")))
	hsrv := httpserver.NewWithService(rt, chat, procLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server error", logpkg.Err(err))
		}
	}()

	<-sctx.Done()
	// Shut the transport down before closing the service and runtime so
	// in-flight requests never observe a closed ring.
	hsrv.Close()
	wg.Wait()
	chat.Close()
	return nil
}
