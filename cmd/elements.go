package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmowens/promptdeck/internal/importer"
	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/validation"
)

var (
	elementsFormat string
	elementsType   string

	elementTitle   string
	elementType    string
	elementContent string

	importDryRun     bool
	importDuplicates bool
)

var elementsCmd = &cobra.Command{
	Use:     "elements",
	Aliases: []string{"element", "el"},
	Short:   "Manage the element library",
	Long: `Elements are reusable labeled text fragments, one of six types:
role, goal, audience, context, output, tone.

Element IDs are assigned in file order when the library loads, so they
are stable for scripting as long as the library file does not change
between commands.`,
}

var elementsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List elements",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		elements, err := svc.ListElements(elementsType)
		if err != nil {
			return fmt.Errorf("failed to list elements: %w", err)
		}

		return formatElements(elements, elementsFormat)
	},
}

var elementsShowCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"get"},
	Short:   "Show one element in full",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid element ID %q", args[0])
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		elem, err := svc.GetElement(id)
		if err != nil {
			return err
		}

		return formatElement(elem, elementsFormat)
	},
}

var elementsAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"new"},
	Short:   "Add an element",
	Example: `  promptdeck elements add --title "Teacher" --type role --content "You are a patient teacher."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if result := validation.ValidateElement(elementTitle, elementType, elementContent); !result.Valid {
			return result.ToAppError()
		}

		cat, err := models.ParseCategory(elementType)
		if err != nil {
			return err
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		elem, err := svc.AddElement(elementTitle, cat, elementContent)
		if err != nil {
			return fmt.Errorf("failed to add element: %w", err)
		}

		fmt.Printf("Added %s element %q (ID %d)\n", elem.Category, elem.Title, elem.ID)
		syncAfterMutation(svc, "Add element")
		return nil
	},
}

var elementsUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"edit"},
	Short:   "Update an element",
	Long:    `Update an element by ID. Only the flags given change; the rest keep their current values.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid element ID %q", args[0])
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		elem, err := svc.GetElement(id)
		if err != nil {
			return err
		}

		title := elem.Title
		cat := elem.Category
		content := elem.Content
		if cmd.Flags().Changed("title") {
			title = elementTitle
		}
		if cmd.Flags().Changed("type") {
			cat, err = models.ParseCategory(elementType)
			if err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("content") {
			content = elementContent
		}

		if result := validation.ValidateElement(title, string(cat), content); !result.Valid {
			return result.ToAppError()
		}

		updated, err := svc.UpdateElement(id, title, cat, content)
		if err != nil {
			return fmt.Errorf("failed to update element: %w", err)
		}

		fmt.Printf("Updated element %d (%s)\n", updated.ID, updated.Title)
		syncAfterMutation(svc, "Update element")
		return nil
	},
}

var elementsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an element",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid element ID %q", args[0])
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		elem, err := svc.GetElement(id)
		if err != nil {
			return err
		}

		if err := svc.DeleteElement(id); err != nil {
			return fmt.Errorf("failed to delete element: %w", err)
		}

		fmt.Printf("Deleted element %d (%s)\n", id, elem.Title)
		syncAfterMutation(svc, "Delete element")
		return nil
	},
}

var elementsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search elements by title, type and content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		svc, err := newService()
		if err != nil {
			return err
		}

		elements, err := svc.SearchElements(query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		return formatElements(elements, elementsFormat)
	},
}

var elementsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import elements from a CSV file",
	Long: `Import elements from a CSV file with title, type and content columns,
such as another library's prompt_elements.csv. Rows identical to an
existing element are skipped unless --duplicates is given. Rows with a
missing field or an unknown type are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		result, err := importer.NewCSVImporter(svc).Import(importer.ImportOptions{
			Path:           args[0],
			DryRun:         importDryRun,
			SkipDuplicates: !importDuplicates,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Printf("%s %d elements", verb, len(result.Imported))
		if len(result.Skipped) > 0 {
			fmt.Printf(", skipped %d duplicates", len(result.Skipped))
		}
		fmt.Println()

		for _, rowErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", rowErr)
		}

		if !importDryRun && len(result.Imported) > 0 {
			syncAfterMutation(svc, "Import elements")
		}
		return nil
	},
}

// formatElements prints an element list in the requested format
func formatElements(elements []models.Element, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(elements)
	case "ids":
		for _, e := range elements {
			fmt.Println(e.ID)
		}
	case "table":
		fmt.Printf("%-5s %-30s %-10s %s\n", "ID", "Title", "Type", "Content")
		fmt.Println(strings.Repeat("-", 80))
		for _, e := range elements {
			title := e.Title
			if len(title) > 30 {
				title = title[:27] + "..."
			}
			content := e.Content
			if i := strings.IndexByte(content, '\n'); i >= 0 {
				content = content[:i]
			}
			if len(content) > 32 {
				content = content[:29] + "..."
			}
			fmt.Printf("%-5d %-30s %-10s %s\n", e.ID, title, e.Category, content)
		}
	default:
		for _, e := range elements {
			fmt.Printf("%d - %s (%s)\n", e.ID, e.Title, e.Category)
		}
	}
	return nil
}

// formatElement prints a single element in full
func formatElement(elem models.Element, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(elem)
	default:
		fmt.Printf("ID: %d\n", elem.ID)
		fmt.Printf("Title: %s\n", elem.Title)
		fmt.Printf("Type: %s\n", elem.Category)
		fmt.Printf("\nContent:\n%s\n", elem.Content)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(elementsCmd)
	elementsCmd.AddCommand(elementsListCmd)
	elementsCmd.AddCommand(elementsShowCmd)
	elementsCmd.AddCommand(elementsAddCmd)
	elementsCmd.AddCommand(elementsUpdateCmd)
	elementsCmd.AddCommand(elementsDeleteCmd)
	elementsCmd.AddCommand(elementsSearchCmd)
	elementsCmd.AddCommand(elementsImportCmd)

	elementsCmd.PersistentFlags().StringVarP(&elementsFormat, "format", "f", "",
		"Output format: json, ids, table")

	elementsListCmd.Flags().StringVarP(&elementsType, "type", "t", "",
		"Filter by element type: "+models.CategoryNames())

	for _, c := range []*cobra.Command{elementsAddCmd, elementsUpdateCmd} {
		c.Flags().StringVar(&elementTitle, "title", "", "Element title")
		c.Flags().StringVar(&elementType, "type", "", "Element type: "+models.CategoryNames())
		c.Flags().StringVar(&elementContent, "content", "", "Element text")
	}

	elementsImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false,
		"Preview the import without writing")
	elementsImportCmd.Flags().BoolVar(&importDuplicates, "duplicates", false,
		"Import rows even when an identical element exists")
}
