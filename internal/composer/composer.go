// Package composer assembles the final prompt string from per-category
// selections and the current element table. It holds no state: every
// call resolves the inputs it is given and nothing else.
package composer

import (
	"strings"

	"github.com/kmowens/promptdeck/internal/errors"
	"github.com/kmowens/promptdeck/internal/models"
)

// FeedbackSuffix is the fixed instruction appended when recursive
// feedback is requested. It is appended whenever the flag is set, even
// to an otherwise empty prompt.
const FeedbackSuffix = "Before you provide the response, please ask me any questions..."

// Compose resolves selections against the element table and joins the
// resulting category blocks, in fixed category order, with a blank line
// between them.
//
// Skipped and empty selections drop their category from the output.
// Single-shaped selections emit "Label: content"; multi-shaped ones
// emit "Label:" followed by one line per fragment, custom text first,
// then referenced titles in pick order. A title that no longer exists
// in the element table fails the whole composition.
func Compose(selections models.Selections, elements []models.Element, appendFeedback bool) (string, error) {
	var blocks []string

	for _, cat := range models.Categories() {
		sel := selections[cat]
		if sel.Empty() {
			continue
		}

		if sel.Multi {
			var parts []string
			if sel.Custom {
				parts = append(parts, sel.CustomText)
			}
			for _, title := range sel.Titles {
				content, err := lookupContent(elements, cat, title)
				if err != nil {
					return "", err
				}
				parts = append(parts, content)
			}
			blocks = append(blocks, cat.Label()+":\n"+strings.Join(parts, "\n"))
		} else {
			var content string
			if sel.Custom {
				content = sel.CustomText
			} else {
				resolved, err := lookupContent(elements, cat, sel.Titles[0])
				if err != nil {
					return "", err
				}
				content = resolved
			}
			blocks = append(blocks, cat.Label()+": "+content)
		}
	}

	prompt := strings.Join(blocks, "\n\n")
	if appendFeedback {
		prompt += "\n\n" + FeedbackSuffix
	}
	return prompt, nil
}

// lookupContent returns the content of the first element in storage
// order matching the category and title.
func lookupContent(elements []models.Element, cat models.Category, title string) (string, error) {
	for _, e := range elements {
		if e.Category == cat && e.Title == title {
			return e.Content, nil
		}
	}
	return "", errors.LookupError(string(cat), title)
}
