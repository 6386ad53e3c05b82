package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/bubble"
	"github.com/kexlie/bobble/internal/clip"
	"github.com/kexlie/bobble/internal/engine"
	"github.com/kexlie/bobble/internal/history"
	"github.com/kexlie/bobble/internal/ipc"
	"github.com/kexlie/bobble/internal/secret"
)

// maxCaptureSize ignores clipboard contents larger than 1 MiB.
const maxCaptureSize = 1024 * 1024

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bubble daemon",
		Long: `Starts the bobble daemon: watches the system clipboard, owns the live
bubble collection, expires idle bubbles, stores capture history, and serves
the IPC socket the other sub-commands talk to.

Config file search order:
  /etc/bobble/bobble.toml
  $HOME/.config/bobble/bobble.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → BOBBLE_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}

	f := cmd.Flags()
	f.String("passphrase", "", "seal IPC messages and history at rest (empty = plaintext)")
	f.Int("size", bubble.DefaultSizeStep, "bubble size step (1-5)")
	f.Float64("width", 1280, "container width until the first resize signal")
	f.Float64("height", 800, "container height until the first resize signal")
	f.String("mode", string(bubble.ModeExtend), "capture mode: extend|replace")
	f.Duration("sweep-interval", engine.DefaultSweepInterval, "auto-hide sweep interval")
	f.Int("max-history", history.DefaultMaxEntries, "history entries to keep")
	f.Duration("history-max-age", history.DefaultMaxAge, "delete history entries older than this")
	f.Bool("no-clipboard", false, "disable system clipboard integration (IPC captures only)")
	f.String("data-dir", "", "data directory (default: ~/.local/share/bobble)")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(v *viper.Viper) error {
	setupLogging(v)

	var key *[secret.KeySize]byte
	if pass := v.GetString("passphrase"); pass != "" {
		var err error
		key, err = secret.DeriveKey(pass)
		if err != nil {
			return fmt.Errorf("key derivation: %w", err)
		}
	}

	mode := bubble.CaptureMode(v.GetString("mode"))
	if mode != bubble.ModeExtend && mode != bubble.ModeReplace {
		return fmt.Errorf("unknown capture mode %q", mode)
	}

	eng := engine.New(bubble.DefaultRegistry(v.GetInt("size")))
	eng.ContainerResized(v.GetFloat64("width"), v.GetFloat64("height"))
	eng.SetCaptureMode(mode)
	eng.SetListener(overlayLogger{})

	store, err := history.Open(dataDir(v), key)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	slog.Info("bobble daemon starting",
		"version", Version,
		"socket", ipc.SocketPath(),
		"encrypted", key != nil,
		"mode", mode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := &daemon{eng: eng, store: store, key: key, maxHistory: v.GetInt("max-history")}

	// The tool panel bubble is always present; tapping it minimizes it.
	if _, err := eng.Add(bubble.ClassTool, bubble.ToolPanel{Mode: mode}); err != nil {
		return fmt.Errorf("add tool panel: %w", err)
	}

	go eng.Run(ctx, v.GetDuration("sweep-interval"))
	go d.retention(ctx, v.GetDuration("history-max-age"))

	if !v.GetBool("no-clipboard") {
		d.backend = clip.New()
		slog.Info("clipboard watcher started", "backend", d.backend.Name())
		go d.watchClipboard(ctx)
	}

	ln, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("listen %s: %w", ipc.SocketPath(), err)
	}
	slog.Info("IPC socket listening", "path", ipc.SocketPath())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("bobble daemon stopping")
				return nil
			}
			slog.Error("accept failed", "err", err)
			continue
		}
		go d.handleConn(conn)
	}
}

// daemon bundles the engine with its collaborators: the history store, the
// clipboard backend, and the IPC key.
type daemon struct {
	eng        *engine.Engine
	store      *history.Store
	backend    clip.Backend
	key        *[secret.KeySize]byte
	maxHistory int

	mu          sync.Mutex
	lastWritten string // last text we wrote back, to break capture loops
}

// watchClipboard feeds system clipboard changes into the engine as paste
// bubbles, skipping text the daemon itself just wrote back.
func (d *daemon) watchClipboard(ctx context.Context) {
	for text := range d.backend.Watch(ctx) {
		if len(text) > maxCaptureSize {
			slog.Debug("capture skipped, too large", "bytes", len(text))
			continue
		}
		d.mu.Lock()
		echo := text == d.lastWritten
		d.mu.Unlock()
		if echo {
			continue
		}
		d.capture(text, "text", "clipboard")
	}
}

// capture submits text to the engine and records it in history.
func (d *daemon) capture(text, contentType, source string) (bubble.Bubble, error) {
	b, err := d.eng.Capture(text, contentType)
	if err != nil {
		slog.Error("capture failed", "source", source, "err", err)
		return bubble.Bubble{}, err
	}
	if _, err := d.store.Add(text, contentType, time.Now()); err != nil {
		slog.Error("history write failed", "err", err)
	} else if _, err := d.store.Trim(d.maxHistory); err != nil {
		slog.Error("history trim failed", "err", err)
	}
	return b, nil
}

// retention purges expired history entries hourly.
func (d *daemon) retention(ctx context.Context, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := d.store.Purge(time.Now().Add(-maxAge)); err != nil {
				slog.Error("history purge failed", "err", err)
			} else if n > 0 {
				slog.Info("history purged", "deleted", n)
			}
		}
	}
}

// deliver executes a consume effect: the text goes back to the system
// clipboard so the focused application can paste it.
func (d *daemon) deliver(eff engine.Effect) {
	if eff.Kind != engine.EffectConsume || d.backend == nil {
		return
	}
	d.mu.Lock()
	d.lastWritten = eff.Text
	d.mu.Unlock()
	d.backend.WriteText(eff.Text)
}

// overlayLogger is the daemon's stand-in rendering consumer: it logs the
// collection after every mutation instead of painting it.
type overlayLogger struct{}

func (overlayLogger) BubblesChanged(snapshot []bubble.Bubble) {
	visible := 0
	for _, b := range snapshot {
		if b.Visible {
			visible++
		}
	}
	slog.Debug("overlay updated", "bubbles", len(snapshot), "visible", visible)
}
