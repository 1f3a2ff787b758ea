package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"tagdo/internal/config"
	"tagdo/internal/logs"
	"tagdo/internal/storage"
	"tagdo/internal/tasks/service"
	"tagdo/internal/tui"
)

type options struct {
	file       string
	configPath string
}

// env is everything a command needs once configuration and state are
// loaded.
type env struct {
	cfg      *config.Config
	store    storage.Store
	session  *service.Session
	warnings []service.Warning
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		logs.Logger.Warn("close store", "err", err)
	}
	logs.Close()
}

// open loads configuration, starts logging and loads the task state.
// Corrupt state is returned as an error and is fatal.
func (o *options) open() (*env, error) {
	cfg, err := config.Load(config.CLIFlags{File: o.file, ConfigPath: o.configPath})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logs.Initialize(cfg.Log.Path, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logger: %v\n", err)
	}
	if err := config.EnsureFile(cfg.Path, cfg.Persistable()); err != nil {
		logs.Logger.Warn("could not create config file", "path", cfg.Path, "err", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logs.Close()
		return nil, err
	}
	opts := service.Options{DefaultTab: cfg.Tabs.DefaultName, Autosave: cfg.Storage.Autosave}
	session, warnings, err := service.Load(store, opts)
	if err != nil {
		store.Close()
		logs.Close()
		return nil, err
	}
	return &env{cfg: cfg, store: store, session: session, warnings: warnings}, nil
}

// NewRootCommand builds the command tree. Running it without a
// subcommand starts the TUI.
func NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "tagdo",
		Short:         "A terminal task manager organised by tags",
		Long:          "tagdo keeps a single list of tasks and shows it through tabs, each a saved tag query.\nRunning tagdo without a command launches the interactive TUI.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(o)
		},
	}
	root.PersistentFlags().StringVarP(&o.file, "file", "f", "", "task storage file (.json, .yaml or .db)")
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file path")

	root.AddCommand(newTaskCommand(o), newExportCommand(o), newPathsCommand(o))
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(o *options) error {
	e, err := o.open()
	if err != nil {
		return err
	}
	defer e.close()

	logs.Logger.Info("starting TUI", "storage", e.store.Path())
	app := tui.NewAppModel(e.session, e.cfg.Keys, tui.WithWarnings(e.warnings))
	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if m, ok := final.(tui.AppModel); ok && m.ExitErr() != nil {
		return m.ExitErr()
	}
	logs.Logger.Info("clean shutdown")
	return nil
}
