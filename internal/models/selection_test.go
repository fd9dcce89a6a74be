package models

import "testing"

func TestSelectionEmpty(t *testing.T) {
	cases := []struct {
		name string
		sel  Selection
		want bool
	}{
		{"zero value", Selection{}, true},
		{"explicit skip", SkipSelection(), true},
		{"skip wins over titles", Selection{Skip: true, Titles: []string{"Assistant"}}, true},
		{"title reference", TitleRef("Assistant"), false},
		{"custom with text", WriteYourOwn("be brief"), false},
		{"custom with empty text", WriteYourOwn(""), false},
		{"multi with no picks", Selection{Multi: true}, true},
	}

	for _, tc := range cases {
		if got := tc.sel.Empty(); got != tc.want {
			t.Errorf("%s: expected Empty()=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSelectionConstructors(t *testing.T) {
	single := TitleRef("Assistant")
	if single.Multi || len(single.Titles) != 1 {
		t.Errorf("Unexpected single selection: %+v", single)
	}

	multi := TitleRefs("Brief", "Table")
	if !multi.Multi {
		t.Error("Expected multi-shaped selection")
	}
	if len(multi.Titles) != 2 || multi.Titles[0] != "Brief" {
		t.Errorf("Expected titles in given order, got %v", multi.Titles)
	}

	withCustom := multi.WithCustom("Markdown only")
	if !withCustom.Custom || withCustom.CustomText != "Markdown only" {
		t.Errorf("Unexpected selection after WithCustom: %+v", withCustom)
	}
	if multi.Custom {
		t.Error("Expected WithCustom to leave the original value unchanged")
	}
}
