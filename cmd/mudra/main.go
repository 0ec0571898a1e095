package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tracking"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "mudra:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, restore, err := logger.Install(cfg.Log)
	if err != nil {
		return err
	}
	defer restore()
	defer log.Sync()

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.PluginDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if cfg.SeedDefaults {
		n, err := app.SeedDefaults(st)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded default poses", zap.Int("count", n))
		}
	}

	plugins := plugin.NewManager(cfg.PluginDir, log)
	if err := plugins.Discover(); err != nil {
		log.Warn("plugin discovery failed", zap.Error(err))
	}

	application := app.New(app.Config{
		Store:    st,
		Plugins:  plugins,
		Executor: plugin.NewExecutor(cfg.PluginTimeout, log),
		Logger:   log,
	})
	if err := application.LoadPoses(); err != nil {
		return err
	}

	staticDir := cfg.FindStaticDir()
	if staticDir != "" {
		log.Info("serving static files", zap.String("dir", staticDir))
	}
	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		App:       application,
		Plugins:   plugins,
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() { errCh <- srv.ListenAndServe(ctx, cfg.Addr) }()

	if src, err := openSource(cfg.Tracker); err != nil {
		return err
	} else if src != nil {
		go func() {
			if err := application.Run(ctx, src); err != nil {
				errCh <- fmt.Errorf("tracker: %w", err)
			}
		}()
	}

	if !cfg.Tray {
		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		}
	}

	// The tray owns the main goroutine until it quits.
	t := tray.New(tray.Options{
		Enabled: application.IsEnabled(),
		OnToggle: func(enabled bool) {
			if err := application.SetEnabled(enabled); err != nil {
				log.Error("failed to save detection setting", zap.Error(err))
			}
		},
		OnOpen: func() { openBrowser(browserURL(cfg.Addr), log) },
		OnQuit: stop,
	})
	application.OnPose(func(ev app.Event) { t.SetLastPose(ev.Hand, ev.Pose) })

	go func() {
		select {
		case <-ctx.Done():
		case err := <-errCh:
			errCh <- err
		}
		t.Stop()
	}()
	t.Run()

	stop()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openSource returns the configured frame source, or nil when frames only
// arrive over the WebSocket stream.
func openSource(cfg config.TrackerConfig) (tracking.Source, error) {
	switch {
	case cfg.Frames != "":
		src, err := tracking.OpenFile(cfg.Frames)
		if err != nil {
			return nil, err
		}
		return src, nil
	case len(cfg.Command) > 0:
		return tracking.NewCommandSource(cfg.Command[0], cfg.Command[1:]...), nil
	}
	return nil, nil
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string, log *zap.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
	}
}
