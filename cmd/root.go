package cmd

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kmowens/promptdeck/internal/config"
	"github.com/kmowens/promptdeck/internal/errors"
	"github.com/kmowens/promptdeck/internal/service"
	"github.com/kmowens/promptdeck/internal/ui"
)

var (
	configPath string
	libraryDir string
	verbose    bool

	cfg       *config.Config
	cliErrors *errors.CLIErrorHandler
)

var rootCmd = &cobra.Command{
	Use:   "promptdeck",
	Short: "Assemble AI prompts from reusable labeled elements",
	Long: `promptdeck builds prompts from a library of reusable labeled text
fragments (elements), one per section: role, goal, target audience,
context, output and tone.

Modes:
  promptdeck              Interactive TUI (default)
  promptdeck elements     Manage the element library
  promptdeck compose      Compose a prompt from the command line
  promptdeck history      Browse and export saved prompts
  promptdeck serve        HTTP API over the same library`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		cliErrors = errors.NewCLIErrorHandler(verbose)
		setupLogging(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: ./promptdeck.yaml, ~/.config/promptdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&libraryDir, "dir", "",
		"Library directory (default: $PROMPTDECK_DIR or ~/.promptdeck)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log command failures with their cause")
}

// newService opens the library honoring the directory precedence:
// --dir flag, then PROMPTDECK_DIR, then the config file, then the
// built-in default.
func newService() (*service.Service, error) {
	dir := libraryDir
	if dir == "" {
		dir = cfg.ResolveLibraryDir()
	}
	if dir == "" {
		return service.NewService()
	}
	return service.NewServiceWithDir(dir)
}

func setupLogging(level string) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	// Logs go to stderr: stdout carries command output
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	model, err := ui.NewModel(svc)
	if err != nil {
		return err
	}
	model.SetPageTitle(cfg.PageTitle)
	model.SetRequestFeedback(cfg.RequestFeedback)
	model.SetWideLayout(cfg.WideLayout)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if cliErrors == nil {
			cliErrors = errors.NewCLIErrorHandler(false)
		}
		fmt.Fprintln(os.Stderr, cliErrors.HandleError(err))
		os.Exit(1)
	}
}
