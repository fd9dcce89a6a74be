package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmowens/promptdeck/internal/clipboard"
	"github.com/kmowens/promptdeck/internal/models"
	"github.com/kmowens/promptdeck/internal/renderer"
	"github.com/kmowens/promptdeck/internal/validation"
)

var (
	composeRole     string
	composeGoal     string
	composeTone     string
	composeAudience []string
	composeContext  []string
	composeOutput   []string

	composeRoleText     string
	composeGoalText     string
	composeToneText     string
	composeAudienceText string
	composeContextText  string
	composeOutputText   string

	composeFeedback bool
	composeCopy     bool
	composeSaveName string
	composeFormat   string
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a prompt from stored elements",
	Long: `Compose a prompt without the TUI. Sections are filled by element
title (--role, --goal, --tone take one; --audience, --context,
--output repeat) or written inline with the matching --*-text flag.
Sections with no flag are left out.

The composed prompt goes to stdout, exactly as the TUI preview shows
it, so it can be piped or redirected.`,
	Example: `  promptdeck compose --role "Teacher" --output "Step by step" --output "Concise"
  promptdeck compose --role-text "You are a historian." --feedback
  promptdeck compose --role "Teacher" --save "history lesson"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		selections := models.Selections{
			models.CategoryRole:     singleSelection(composeRole, composeRoleText, cmd.Flags().Changed("role-text")),
			models.CategoryGoal:     singleSelection(composeGoal, composeGoalText, cmd.Flags().Changed("goal-text")),
			models.CategoryTone:     singleSelection(composeTone, composeToneText, cmd.Flags().Changed("tone-text")),
			models.CategoryAudience: multiSelection(composeAudience, composeAudienceText, cmd.Flags().Changed("audience-text")),
			models.CategoryContext:  multiSelection(composeContext, composeContextText, cmd.Flags().Changed("context-text")),
			models.CategoryOutput:   multiSelection(composeOutput, composeOutputText, cmd.Flags().Changed("output-text")),
		}

		prompt, err := svc.ComposePrompt(selections, composeFeedback)
		if err != nil {
			return err
		}

		switch composeFormat {
		case "messages":
			payload, err := renderer.Messages(prompt)
			if err != nil {
				return err
			}
			fmt.Println(payload)
		default:
			fmt.Println(renderer.Text(prompt))
		}

		if composeCopy {
			statusMsg, err := clipboard.CopyWithFallback(prompt)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, statusMsg)
		}

		if composeSaveName != "" {
			if result := validation.ValidateHistoryName(composeSaveName); !result.Valid {
				return result.ToAppError()
			}
			entry, err := svc.SaveHistory(composeSaveName, prompt)
			if err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Saved %q to history (%s)\n", entry.Name, entry.Timestamp)
			syncAfterMutation(svc, "Save prompt")
		}

		return nil
	},
}

// singleSelection builds the selection for a single-pick section: inline
// text when its text flag was given, otherwise a title reference.
func singleSelection(title, text string, textSet bool) models.Selection {
	if textSet {
		return models.WriteYourOwn(text)
	}
	if title != "" {
		return models.TitleRef(title)
	}
	return models.Selection{}
}

// multiSelection builds the selection for a multi-pick section; inline
// text composes ahead of the referenced titles.
func multiSelection(titles []string, text string, textSet bool) models.Selection {
	if len(titles) == 0 && !textSet {
		return models.Selection{}
	}
	sel := models.TitleRefs(titles...)
	if textSet {
		sel = sel.WithCustom(text)
	}
	return sel
}

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().StringVar(&composeRole, "role", "", "Role element title")
	composeCmd.Flags().StringVar(&composeGoal, "goal", "", "Goal element title")
	composeCmd.Flags().StringVar(&composeTone, "tone", "", "Tone element title")
	composeCmd.Flags().StringArrayVar(&composeAudience, "audience", nil, "Audience element title (repeatable)")
	composeCmd.Flags().StringArrayVar(&composeContext, "context", nil, "Context element title (repeatable)")
	composeCmd.Flags().StringArrayVar(&composeOutput, "output", nil, "Output element title (repeatable)")

	composeCmd.Flags().StringVar(&composeRoleText, "role-text", "", "Inline role text instead of a stored element")
	composeCmd.Flags().StringVar(&composeGoalText, "goal-text", "", "Inline goal text")
	composeCmd.Flags().StringVar(&composeToneText, "tone-text", "", "Inline tone text")
	composeCmd.Flags().StringVar(&composeAudienceText, "audience-text", "", "Inline audience text, before any titles")
	composeCmd.Flags().StringVar(&composeContextText, "context-text", "", "Inline context text, before any titles")
	composeCmd.Flags().StringVar(&composeOutputText, "output-text", "", "Inline output text, before any titles")

	composeCmd.Flags().BoolVar(&composeFeedback, "feedback", false,
		"Append the clarifying-questions request")
	composeCmd.Flags().BoolVar(&composeCopy, "copy", false,
		"Also copy the prompt to the clipboard")
	composeCmd.Flags().StringVar(&composeSaveName, "save", "",
		"Also save the prompt to history under this name")
	composeCmd.Flags().StringVarP(&composeFormat, "format", "f", "",
		"Output format: messages (chat-completion JSON payload)")
}
