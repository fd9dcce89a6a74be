package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmowens/promptdeck/internal/errors"
	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/service"
	"github.com/kmowens/promptdeck/internal/validation"
)

var (
	historyFormat string
	exportOutput  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export saved prompts",
	Long: `History keeps every prompt saved from the builder, newest first.
Entries are addressed by their list position (1 = most recent) or by
name.`,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved prompts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		entries, err := svc.ListHistory()
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		return formatHistory(entries, historyFormat, true)
	},
}

var historyShowCmd = &cobra.Command{
	Use:     "show <position|name>",
	Aliases: []string{"get"},
	Short:   "Show one saved prompt in full",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		entry, err := findHistoryEntry(svc, args[0])
		if err != nil {
			return err
		}

		return formatHistoryEntry(entry, historyFormat)
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search saved prompts by name and text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		svc, err := newService()
		if err != nil {
			return err
		}

		entries, err := svc.SearchHistory(query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		return formatHistory(entries, historyFormat, false)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full history as CSV",
	Long: `Write the history table as CSV with a name,timestamp,prompt header.
The default filename embeds today's date; use -o - to write to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		data, err := svc.ExportHistory()
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}

		filename := exportOutput
		if filename == "" {
			filename = service.ExportFilename()
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}

		fmt.Printf("Exported history to %s\n", filename)
		return nil
	},
}

var historySaveCmd = &cobra.Command{
	Use:     "save <name>",
	Short:   "Save a prompt from stdin to history",
	Example: `  promptdeck compose --role "Teacher" | promptdeck history save "lesson prompt"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if result := validation.ValidateHistoryName(name); !result.Valid {
			return result.ToAppError()
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		prompt := strings.TrimRight(string(data), "\n")
		if prompt == "" {
			return errors.MissingFieldError("prompt")
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		entry, err := svc.SaveHistory(name, prompt)
		if err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}

		fmt.Printf("Saved %q to history (%s)\n", entry.Name, entry.Timestamp)
		syncAfterMutation(svc, "Save prompt")
		return nil
	},
}

// findHistoryEntry resolves a position (1 = newest) or a name to an entry
func findHistoryEntry(svc *service.Service, ref string) (models.HistoryEntry, error) {
	entries, err := svc.ListHistory()
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("failed to list history: %w", err)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(entries) {
			return models.HistoryEntry{}, errors.NotFoundError(fmt.Sprintf("history entry %d", n))
		}
		return entries[n-1], nil
	}

	for _, e := range entries {
		if e.Name == ref {
			return e, nil
		}
	}
	return models.HistoryEntry{}, errors.NotFoundError(fmt.Sprintf("history entry %q", ref))
}

// formatHistory prints a history listing. Positions are printed only when
// they are valid arguments to show (a full newest-first listing).
func formatHistory(entries []models.HistoryEntry, format string, numbered bool) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(entries)
	default:
		for i, e := range entries {
			if numbered {
				fmt.Printf("%d. %s (%s)\n", i+1, e.Title(), e.Timestamp)
			} else {
				fmt.Printf("%s (%s)\n", e.Title(), e.Timestamp)
			}
			preview := e.Prompt
			if j := strings.IndexByte(preview, '\n'); j >= 0 {
				preview = preview[:j]
			}
			if preview != "" {
				fmt.Printf("   %s\n", preview)
			}
		}
	}
	return nil
}

// formatHistoryEntry prints one entry in full
func formatHistoryEntry(entry models.HistoryEntry, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(entry)
	case "prompt":
		fmt.Println(entry.Prompt)
	default:
		fmt.Printf("Name: %s\n", entry.Title())
		fmt.Printf("Saved: %s\n", entry.Timestamp)
		fmt.Printf("\nPrompt:\n%s\n", entry.Prompt)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historySaveCmd)

	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "f", "",
		"Output format: json (show also takes: prompt)")

	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"Output file (default: prompt_history_<date>.csv, - for stdout)")
}
