package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/resumed/internal/api"
	"github.com/kalambet/resumed/internal/assist"
	"github.com/kalambet/resumed/internal/config"
	"github.com/kalambet/resumed/internal/ollama"
	"github.com/kalambet/resumed/internal/profile"
	"github.com/kalambet/resumed/internal/storage"
	"github.com/kalambet/resumed/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resumed HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pull, _ := cmd.Flags().GetBool("pull")
		port, _ := cmd.Flags().GetInt("port")
		return runServer(pull, port)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server, Ollama and storage status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Bool("pull", false, "pull the configured model if it is missing and warm it up before serving")
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func setupLogging(level string, w io.Writer) {
	logLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

// openProfileStore returns the configured profile backend and a func that
// releases it.
func openProfileStore(cfg config.StorageConfig) (profile.Store, func(), error) {
	if cfg.Backend == config.BackendSQLite {
		db, err := storage.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening storage: %w", err)
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
			}
		}
		return profile.NewDBStore(db), closeFn, nil
	}
	return profile.NewFileStore(cfg.ProfilePath()), func() {}, nil
}

func newAssistant(cfg config.OllamaConfig) (*assist.Assistant, *ollama.Client) {
	client := ollama.New(cfg.BaseURL, cfg.RequestTimeout())
	return assist.New(client, cfg.Model), client
}

func runServer(pull bool, port int) error {
	fmt.Fprintf(os.Stderr, "resumed version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	setupLogging(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assistant, ollamaClient := newAssistant(cfg.Ollama)
	if pull {
		if err := ollama.EnsureReady(ctx, ollamaClient, cfg.Ollama.Model, os.Stderr); err != nil {
			return err
		}
	} else if !ollamaClient.IsRunning(ctx) {
		slog.Warn("Ollama is not reachable; assist endpoints will fail until it is", "base_url", cfg.Ollama.BaseURL)
	}

	store, closeStore, err := openProfileStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	if info, err := os.Stat(cfg.Static.Dir); err != nil || !info.IsDir() {
		slog.Warn("static directory not found; frontend routes will return 404", "dir", cfg.Static.Dir)
	}

	handler := api.NewHandler(api.Deps{
		Profile:   store,
		Assistant: assistant,
		Static:    web.NewSPA(cfg.Static.Dir),
	})

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("resumed listening", "addr", addr, "model", cfg.Ollama.Model, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(localBaseURL(cfg.Server) + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	oc := ollama.New(cfg.Ollama.BaseURL, 0)
	if oc.IsRunning(checkCtx) {
		printStatus("Ollama", "running at %s", cfg.Ollama.BaseURL)
		if oc.HasModel(checkCtx, cfg.Ollama.Model) {
			printStatus("Model", "%s (available)", cfg.Ollama.Model)
		} else {
			printStatus("Model", "%s (missing)", cfg.Ollama.Model)
			printWarning("model %s is not pulled yet; run: resumed serve --pull", cfg.Ollama.Model)
		}
	} else {
		printStatus("Ollama", "not running at %s", cfg.Ollama.BaseURL)
		printStatus("Model", "%s", cfg.Ollama.Model)
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		printStatus("Storage", "sqlite in %s", cfg.Storage.DataDir)
	default:
		printStatus("Storage", "file %s", cfg.Storage.ProfilePath())
	}
	if saved, ok := profileLastSaved(cfg.Storage); ok {
		printStatus("Profile", "saved %s", saved.Local().Format(time.DateTime))
	} else {
		printStatus("Profile", "not saved yet")
	}
	printStatus("Static dir", "%s", cfg.Static.Dir)
	return nil
}

// profileLastSaved reports when the profile was last written without
// creating any storage as a side effect.
func profileLastSaved(cfg config.StorageConfig) (time.Time, bool) {
	if cfg.Backend != config.BackendSQLite {
		info, err := os.Stat(cfg.ProfilePath())
		if err != nil {
			return time.Time{}, false
		}
		return info.ModTime(), true
	}

	if _, err := os.Stat(filepath.Join(cfg.DataDir, storage.DBFileName)); err != nil {
		return time.Time{}, false
	}
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return time.Time{}, false
	}
	defer db.Close()
	t, err := db.ProfileUpdatedAt()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
