package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/config"
	"github.com/1broseidon/snaptile/internal/daemon"
	"github.com/1broseidon/snaptile/internal/dialog"
	"github.com/1broseidon/snaptile/internal/hotkeys"
	"github.com/1broseidon/snaptile/internal/ipc"
	"github.com/1broseidon/snaptile/internal/logging"
	"github.com/1broseidon/snaptile/internal/login"
	"github.com/1broseidon/snaptile/internal/notify"
	"github.com/1broseidon/snaptile/internal/placement"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/power"
	"github.com/1broseidon/snaptile/internal/runtimepath"
	"github.com/1broseidon/snaptile/internal/settings"
	"github.com/1broseidon/snaptile/internal/shell"
	"github.com/1broseidon/snaptile/internal/tray"
	"github.com/1broseidon/snaptile/internal/update"
)

const callbackTimeout = 3 * time.Second

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/snaptile/config.yaml)")
	noTray := fs.Bool("no-tray", false, "Run without the menu-bar item")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snaptile daemon [--config PATH] [--no-tray]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the daemon in the foreground: global hotkeys, menu bar and IPC socket.")
	}
	if code := parseNoArgs(fs, args); code >= 0 {
		return code
	}

	res, err := loadConfigResult(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	logFile, err := resolveLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve log directory: %v\n", err)
		return 1
	}
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: logFile, Console: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}

	return runMainLoop(*noTray, func() int {
		defer closer.Close()
		if err := serveDaemon(cfg, logger, *noTray); err != nil {
			logger.Error().Err(err).Msg("daemon stopped")
			return 1
		}
		return 0
	})
}

func resolveLogFile(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := logging.ResolveDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logging.FileName), nil
}

func serveDaemon(cfg *config.Config, logger zerolog.Logger, noTray bool) error {
	log := logger.With().Str("component", "main").Logger()
	log.Info().Str("version", version).Msg("snaptile daemon starting")

	conn, err := platform.New(cfg.Display)
	if err != nil {
		return fmt.Errorf("connect to window system: %w", err)
	}
	defer conn.Disconnect()
	backend := windowBackend(conn)

	notifier := notify.New(cfg.Notifications, logger)

	// Shown once; the user restarts after granting access. The trust check
	// is not AppKit, so it skips the main-thread hop that would block here.
	if !conn.Trusted(true) {
		log.Warn().Msg("window control is not authorized")
		if err := dialog.PermissionNotice(); err != nil {
			log.Debug().Err(err).Msg("permission notice dismissed")
		}
		notifier.PermissionMissing()
	}

	bindings, err := cfg.HotkeyBindings()
	if err != nil {
		return err
	}

	settingsPath, err := runtimepath.SettingsPath()
	if err != nil {
		return err
	}
	store, err := settings.Open(settingsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", settingsPath).Msg("ignoring unreadable settings")
		if store, err = settings.Open(filepath.Join(os.TempDir(), "snaptile-settings.yaml")); err != nil {
			return err
		}
	}

	installer, err := hotkeys.NewInstaller(conn)
	if err != nil {
		return err
	}

	var tr *tray.Tray
	proc := daemon.New(daemon.Config{
		Placer: placement.New(backend, placement.Config{
			ResetScale: cfg.ResetScale,
			SelfPID:    os.Getpid(),
			Logger:     logger,
		}),
		Screens:    backend.Screens,
		Store:      store,
		DualSnap:   store.Get().DualSnapEnabled,
		QueueSize:  cfg.QueueSize,
		WakeSettle: cfg.WakeSettle(),
		OnDualSnap: func(enabled bool) {
			if tr != nil {
				tr.SetDualSnap(enabled)
				return
			}
			// headless: no checkbox to reflect the change
			notifier.DualSnap(enabled)
		},
		Logger: logger,
	})

	listener, err := hotkeys.NewListener(installer, bindings, proc, logger)
	if err != nil {
		return err
	}
	proc.UseListener(listener)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loginItem, err := login.New()
	if err != nil {
		log.Warn().Err(err).Msg("start at login unavailable")
	}
	checker := update.NewChecker(logger)

	if !noTray {
		tr = tray.New(trayCallbacks(ctx, proc, listener, store, loginItem, checker, log), version,
			store.Get().DualSnapEnabled, loginItem != nil && loginItem.Enabled())
	}

	done := make(chan struct{})
	go func() {
		proc.Run(ctx)
		close(done)
	}()

	stopLoop := startEventLoop(conn, log)
	defer stopLoop()

	installErr := make(chan error, 1)
	proc.Post(daemon.InstallEvent{Reply: installErr})
	err, ok := await(installErr)
	if !ok {
		err = errors.New("timed out installing hotkeys")
	}
	if err != nil {
		log.Error().Err(err).Msg("hotkeys unavailable")
		notifier.HotkeysUnavailable(err.Error())
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	server := ipc.NewServer(socketPath, proc, version, logger)
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	if err := power.Watch(ctx, proc.Wake, logger); err != nil {
		log.Warn().Err(err).Msg("wake detection unavailable; use 'snaptile rearm' after sleep")
	}

	if cfg.UpdateCheck {
		checker.StartBackgroundCheck(ctx, version, func(rel update.Release) {
			notifier.UpdateAvailable(rel.Version)
		})
	}

	log.Info().Int("bindings", len(bindings)).Bool("tray", tr != nil).Msg("snaptile daemon running")

	if tr == nil {
		<-ctx.Done()
	} else {
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
		tr.Run(nil, nil)
		cancel()
	}

	log.Info().Msg("shutting down")
	<-done
	return nil
}

func trayCallbacks(ctx context.Context, proc *daemon.Processor, listener *hotkeys.Listener, store *settings.Store, item *login.Item, checker *update.Checker, log zerolog.Logger) tray.Callbacks {
	return tray.Callbacks{
		OnDualSnapToggle: func() bool {
			ch := make(chan bool, 1)
			proc.Post(daemon.SetDualSnapEvent{Toggle: true, Reply: ch})
			enabled, ok := await(ch)
			if !ok {
				return store.Get().DualSnapEnabled
			}
			return enabled
		},
		OnLoginToggle: func(on bool) (bool, error) {
			if item == nil {
				return false, fmt.Errorf("start at login unavailable")
			}
			if err := item.Set(on); err != nil {
				log.Warn().Err(err).Bool("enable", on).Msg("failed to change start at login")
				return item.Enabled(), err
			}
			return item.Enabled(), nil
		},
		OnShowGuide: func() {
			ch := make(chan daemon.Status, 1)
			proc.Post(daemon.StatusEvent{Reply: ch})
			st, _ := await(ch)
			dialog.Guide(listener.Bindings(), st.DualSnap)
		},
		OnCheckUpdates: func() {
			rel, err := checker.Check(ctx, version)
			switch {
			case err != nil:
				dialog.ShowError("Update Check Failed", err.Error())
			case rel == nil:
				dialog.UpToDate(version)
			default:
				open, err := dialog.UpdatePrompt(rel.Version)
				if err != nil || !open {
					return
				}
				if err := shell.OpenURL(rel.URL); err != nil {
					log.Warn().Err(err).Msg("failed to open release page")
				}
			}
		},
		OnRestart: func() {
			if err := shell.Restart(); err != nil {
				log.Error().Err(err).Msg("restart failed")
			}
		},
	}
}

// await waits for a processor reply, giving up after callbackTimeout.
func await[T any](ch <-chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(callbackTimeout):
		var zero T
		return zero, false
	}
}
