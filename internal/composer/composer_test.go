package composer

import (
	"testing"

	apperrors "github.com/kmowens/promptdeck/internal/errors"
	"github.com/kmowens/promptdeck/internal/models"
)

func testElements() []models.Element {
	return []models.Element{
		{ID: 1, Title: "Assistant", Category: models.CategoryRole, Content: "You are a helpful assistant."},
		{ID: 2, Title: "Detailed", Category: models.CategoryOutput, Content: "Give exhaustive detail."},
		{ID: 3, Title: "A", Category: models.CategoryContext, Content: "a"},
		{ID: 4, Title: "B", Category: models.CategoryContext, Content: "b"},
		{ID: 5, Title: "Casual", Category: models.CategoryTone, Content: "Keep it casual."},
	}
}

func TestComposeAllSkipped(t *testing.T) {
	selections := models.Selections{}
	for _, cat := range models.Categories() {
		selections[cat] = models.SkipSelection()
	}

	prompt, err := Compose(selections, testElements(), false)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if prompt != "" {
		t.Errorf("Expected empty prompt, got %q", prompt)
	}
}

func TestComposeAllSkippedWithFeedback(t *testing.T) {
	// The suffix is appended whenever the flag is set, even when every
	// category was skipped, so the result starts with a blank line.
	prompt, err := Compose(models.Selections{}, testElements(), true)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	want := "\n\n" + FeedbackSuffix
	if prompt != want {
		t.Errorf("Expected %q, got %q", want, prompt)
	}
}

func TestComposeSingleAndSkippedCategories(t *testing.T) {
	selections := models.Selections{
		models.CategoryRole:     models.WriteYourOwn("Assistant"),
		models.CategoryGoal:     models.SkipSelection(),
		models.CategoryAudience: models.TitleRefs(),
		models.CategoryContext:  {},
		models.CategoryOutput:   models.TitleRef("Detailed"),
		models.CategoryTone:     models.SkipSelection(),
	}

	prompt, err := Compose(selections, testElements(), false)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := "Role: Assistant\n\nOutput: Give exhaustive detail."
	if prompt != want {
		t.Errorf("Expected %q, got %q", want, prompt)
	}
}

func TestComposeMultiPreservesPickOrder(t *testing.T) {
	// Custom text leads the block, then titles in the order they were
	// picked, regardless of storage order.
	selections := models.Selections{
		models.CategoryContext: models.TitleRefs("B", "A").WithCustom("X"),
	}

	prompt, err := Compose(selections, testElements(), false)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := "Context:\nX\nb\na"
	if prompt != want {
		t.Errorf("Expected %q, got %q", want, prompt)
	}
}

func TestComposeSkipInsideMultiOmitsCategory(t *testing.T) {
	selections := models.Selections{
		models.CategoryContext: {Skip: true, Multi: true, Titles: []string{"A"}},
		models.CategoryTone:    models.TitleRef("Casual"),
	}

	prompt, err := Compose(selections, testElements(), false)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := "Tone: Keep it casual."
	if prompt != want {
		t.Errorf("Expected %q, got %q", want, prompt)
	}
}

func TestComposeCategoryOrderIsFixed(t *testing.T) {
	selections := models.Selections{
		models.CategoryTone: models.TitleRef("Casual"),
		models.CategoryRole: models.TitleRef("Assistant"),
	}

	prompt, err := Compose(selections, testElements(), false)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := "Role: You are a helpful assistant.\n\nTone: Keep it casual."
	if prompt != want {
		t.Errorf("Expected role before tone, got %q", prompt)
	}
}

func TestComposeEmptyCustomTextStillEmits(t *testing.T) {
	selections := models.Selections{
		models.CategoryRole: models.WriteYourOwn(""),
	}

	prompt, err := Compose(selections, testElements(), false)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if prompt != "Role: " {
		t.Errorf("Expected %q, got %q", "Role: ", prompt)
	}
}

func TestComposeFeedbackSuffixAppended(t *testing.T) {
	selections := models.Selections{
		models.CategoryRole: models.WriteYourOwn("Assistant"),
	}

	prompt, err := Compose(selections, testElements(), true)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := "Role: Assistant\n\n" + FeedbackSuffix
	if prompt != want {
		t.Errorf("Expected %q, got %q", want, prompt)
	}
}

func TestComposeMissingTitleFails(t *testing.T) {
	selections := models.Selections{
		models.CategoryRole: models.TitleRef("Ghost"),
	}

	_, err := Compose(selections, testElements(), false)
	if err == nil {
		t.Fatal("Expected lookup failure for missing title")
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeLookupFailed) {
		t.Errorf("Expected LOOKUP_FAILED, got %v", err)
	}
}

func TestComposeTitleScopedToCategory(t *testing.T) {
	// The same title in another category must not satisfy the lookup.
	elements := []models.Element{
		{ID: 1, Title: "Shared", Category: models.CategoryGoal, Content: "goal text"},
	}
	selections := models.Selections{
		models.CategoryTone: models.TitleRef("Shared"),
	}

	if _, err := Compose(selections, elements, false); err == nil {
		t.Fatal("Expected lookup failure when title exists only in another category")
	}
}
