// Package main provides the CLI entrypoint for typesync.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typesync/internal/config"
	"github.com/verte-zerg/typesync/internal/corpus"
	"github.com/verte-zerg/typesync/internal/history"
	"github.com/verte-zerg/typesync/internal/model"
	"github.com/verte-zerg/typesync/internal/remote"
	"github.com/verte-zerg/typesync/internal/sampler"
	"github.com/verte-zerg/typesync/internal/stats"
	"github.com/verte-zerg/typesync/internal/statsui"
	"github.com/verte-zerg/typesync/internal/store"
	"github.com/verte-zerg/typesync/internal/syncd"
	"github.com/verte-zerg/typesync/internal/tui"
)

const (
	backendLocal  = "local"
	backendRemote = "remote"
	backendMemory = "memory"
)

const (
	defaultBackend     = backendLocal
	defaultURL         = "ws://127.0.0.1:8787/sync"
	defaultAddr        = ":8787"
	defaultCurveWindow = 5
	dialTimeout        = 5 * time.Second
	plotHeight         = 8
)

var (
	practiceSampleMs int
	syncBackend      string
	syncURL          string
	syncDB           string

	historyFormat string
	historyWindow int
	historyLast   int
	historyTUI    bool

	serveAddr string
	serveDB   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typesync",
		Short:         "Typing speed trainer with synced history",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	addSyncFlags(rootCmd)
	rootCmd.Flags().IntVar(&practiceSampleMs, "sample-ms", int(sampler.DefaultInterval/time.Millisecond), "live speed refresh interval in milliseconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&syncBackend, "backend", defaultBackend, "history store: local, remote or memory")
	cmd.Flags().StringVar(&syncURL, "url", defaultURL, "sync server URL for the remote backend")
	cmd.Flags().StringVar(&syncDB, "db", config.DefaultDBPath(), "database path for the local backend")
}

func applySyncConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "backend", &syncBackend, fileCfg.Sync.Backend)
	applyStringConfig(cmd, "url", &syncURL, fileCfg.Sync.URL)
	applyStringConfig(cmd, "db", &syncDB, fileCfg.Sync.DB)
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySyncConfig(cmd, fileCfg)
	applyIntConfig(cmd, "sample-ms", &practiceSampleMs, fileCfg.Practice.SampleMs)

	cfg := model.Config{
		SampleInterval: time.Duration(practiceSampleMs) * time.Millisecond,
		Backend:        syncBackend,
		RemoteURL:      syncURL,
		DBPath:         syncDB,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	backing, closeBackend, err := openBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	relay := &tui.StatusRelay{}
	adapter := history.New(backing, history.Config{OnStatus: relay.Notify})
	defer adapter.Close()

	m := tui.NewModel(cfg, adapter, corpus.New(), nil)
	program := tea.NewProgram(m, tea.WithAltScreen())
	relay.Attach(program)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openBackend returns the configured history store and a function that releases it.
func openBackend(ctx context.Context, cfg model.Config) (history.Store, func(), error) {
	switch cfg.Backend {
	case backendLocal:
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db: %w", err)
		}
		return st, func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}, nil
	case backendRemote:
		if ctx == nil {
			ctx = context.Background()
		}
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		client, err := remote.Dial(dialCtx, cfg.RemoteURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to sync server: %w", err)
		}
		return client, func() {
			if cerr := client.Close(); cerr != nil {
				logErrf("failed to close sync connection: %v\n", cerr)
			}
		}, nil
	case backendMemory:
		return history.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (use local, remote or memory)", cfg.Backend)
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show synced test history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addSyncFlags(cmd)
	cmd.Flags().StringVar(&historyFormat, "format", "text", "output format: text, json or yaml")
	cmd.Flags().IntVar(&historyWindow, "window", defaultCurveWindow, "moving average window for curves")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse history interactively")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySyncConfig(cmd, fileCfg)
	if historyWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	cfg := model.Config{Backend: syncBackend, RemoteURL: syncURL, DBPath: syncDB}
	backing, closeBackend, err := openBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeBackend()
	adapter := history.New(backing, history.Config{})
	defer adapter.Close()

	if historyTUI {
		m := statsui.NewModel(adapter, statsui.Options{Last: historyLast, Window: historyWindow})
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report := stats.BuildReport(cmd.Context(), adapter, historyLast, historyWindow)
	out := cmd.OutOrStdout()
	if err := writeHistory(out, historyFormat, report, historyWindow); err != nil {
		return err
	}
	if st, ok := backing.(*store.Store); ok && historyFormat == "text" {
		if err := writeUpdatedAt(cmd.Context(), out, st); err != nil {
			return err
		}
	}
	return nil
}

func writeHistory(w io.Writer, format string, report stats.Report, window int) error {
	results := report.Results
	if results == nil {
		results = []model.TestResult{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return nil
	case "text":
		if err := stats.RenderSummary(w, results); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if len(results) == 0 {
			return nil
		}
		if err := stats.RenderCurves(w, results, window, outputWidth(w), plotHeight, false); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderHistoryTable(w, results, time.Local); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
	}
}

func writeUpdatedAt(ctx context.Context, w io.Writer, st *store.Store) error {
	updated, ok, err := st.UpdatedAt(ctx, model.HistoryKey)
	if err != nil {
		return fmt.Errorf("failed to read sync time: %w", err)
	}
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nLast synced: %s\n", updated.Local().Format(stats.DateLayout)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func outputWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the history sync server",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveDB, "db", config.DefaultServerDBPath(), "database path")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)
	applyStringConfig(cmd, "db", &serveDB, fileCfg.Serve.DB)

	st, err := store.Open(serveDB)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	logger := log.New(os.Stderr, "typesync: ", log.LstdFlags)
	mux := http.NewServeMux()
	mux.Handle("/sync", syncd.NewServer(st, logger))
	srv := &http.Server{Addr: serveAddr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("serving history on %s/sync (db %s)", serveAddr, serveDB)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesync configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# sample-ms = %d          # Live speed refresh interval in milliseconds

[sync]
# backend = %q       # History store: local, remote or memory
# url = %q
# db = %q

[serve]
# addr = %q
# db = %q
`,
		int(sampler.DefaultInterval/time.Millisecond),
		defaultBackend,
		defaultURL,
		config.DefaultDBPath(),
		defaultAddr,
		config.DefaultServerDBPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.SampleInterval <= 0 {
		return fmt.Errorf("--sample-ms must be > 0")
	}
	switch cfg.Backend {
	case backendLocal, backendRemote, backendMemory:
	default:
		return fmt.Errorf("--backend must be local, remote or memory")
	}
	if cfg.Backend == backendRemote && cfg.RemoteURL == "" {
		return fmt.Errorf("--url must not be empty for the remote backend")
	}
	if cfg.Backend == backendLocal && cfg.DBPath == "" {
		return fmt.Errorf("--db must not be empty for the local backend")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
