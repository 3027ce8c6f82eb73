package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nzaccagnino/volon/internal/api"
	"github.com/nzaccagnino/volon/internal/config"
	"github.com/nzaccagnino/volon/internal/db"
	"github.com/nzaccagnino/volon/internal/i18n"
	"github.com/nzaccagnino/volon/internal/local"
	"github.com/nzaccagnino/volon/internal/logging"
	"github.com/nzaccagnino/volon/internal/syncer"
	"github.com/nzaccagnino/volon/internal/trash"
	"github.com/nzaccagnino/volon/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	serverURL  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "volon",
	Short: "Markdown notes in the terminal, stored locally or on a sync server",
	Long: `Volón keeps your notes in a local SQLite database.
Log in to a Volón server to keep them there instead; local notes are imported on login.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the model loads the notes itself in Init
		a, err := openApp(cmd.Context(), openOptions{logToFile: true, skipLoad: true})
		if err != nil {
			return err
		}
		defer a.Close()

		m := ui.NewModel(a.coord, ui.Options{
			Username:  a.client.Username(),
			ExportDir: filepath.Dir(a.cfg.DBPath),
			Logger:    a.logger,
		})
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to config.yml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "sync server URL (overrides server.url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a command needs once the config is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	kv      *db.DB
	client  *api.Client
	trash   *trash.Buffer
	coord   *syncer.Coordinator
	closers []io.Closer
}

type openOptions struct {
	// logToFile sends logs next to the database instead of stderr.
	logToFile bool
	// skipLoad leaves the notebook empty; the caller loads or switches mode.
	skipLoad bool
	// ignoreSession starts in local mode whatever session is saved.
	ignoreSession bool
}

// openApp loads the config, opens the database and, unless told otherwise,
// loads the notes of the current mode. A first run writes the default config.
func openApp(ctx context.Context, opts openOptions) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if !config.ConfigExists(configPath) {
		if err := cfg.Save(configPath); err != nil {
			return nil, err
		}
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	i18n.SetLanguage(i18n.Language(cfg.Language))

	a := &app{cfg: cfg}
	if opts.logToFile {
		logger, closer, err := logging.SetupFile(cfg.LogPath(), cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, closer)
	} else {
		a.logger = logging.Setup(cfg.LogLevel)
	}

	a.kv, err = db.New(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.kv)

	a.client = api.NewClient(cfg.Server.URL)
	if cfg.Server.SignedIn() && !opts.ignoreSession {
		a.client.SetSession(cfg.Server.Token, cfg.Server.UserID, cfg.Server.Username)
	}

	store := local.NewStore(a.kv)
	a.trash = trash.New(store, cfg.UndoGracePeriod, a.logger)
	a.coord = syncer.New(syncer.Deps{
		Local:   store,
		Remote:  api.NewRemote(a.client),
		Session: a.client,
		Trash:   a.trash,
		Logger:  a.logger,
	})

	if opts.skipLoad {
		return a, nil
	}
	if err := a.coord.LoadNotesOnStartup(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) saveConfig() error {
	return a.cfg.Save(configPath)
}

func (a *app) Close() {
	if a.trash != nil {
		a.trash.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
