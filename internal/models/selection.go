package models

// Selection captures the user's intent for one category of the builder.
// The zero value means "nothing picked", which composes the same as an
// explicit skip.
//
// Multi records the shape of the selection, not the category: a
// multi-pick widget yields Multi even when only one fragment is chosen,
// and a single-pick widget never does. The composer emits inline blocks
// for single-shaped selections and list blocks for multi-shaped ones.
type Selection struct {
	// Skip marks the category as deliberately omitted. In a multi-pick
	// section, choosing Skip alongside other options still omits the whole
	// section.
	Skip bool `json:"skip,omitempty"`

	// Multi marks a list-shaped selection.
	Multi bool `json:"multi,omitempty"`

	// Custom is set when the user chose to write the fragment inline rather
	// than reference a stored element. CustomText carries the inline text and
	// may legitimately be empty.
	Custom     bool   `json:"custom,omitempty"`
	CustomText string `json:"custom_text,omitempty"`

	// Titles are references to stored element titles within this category,
	// in pick order. A single-shaped selection holds at most one.
	Titles []string `json:"titles,omitempty"`
}

// Selections maps each category to the user's choice. Missing keys compose
// as skipped.
type Selections map[Category]Selection

// SkipSelection returns an explicit skip.
func SkipSelection() Selection {
	return Selection{Skip: true}
}

// WriteYourOwn returns a single-shaped selection carrying inline custom
// text.
func WriteYourOwn(text string) Selection {
	return Selection{Custom: true, CustomText: text}
}

// TitleRef returns a single-shaped selection referencing one stored
// element by title.
func TitleRef(title string) Selection {
	return Selection{Titles: []string{title}}
}

// TitleRefs returns a multi-shaped selection referencing stored elements
// by title, in the given order.
func TitleRefs(titles ...string) Selection {
	return Selection{Multi: true, Titles: titles}
}

// WithCustom adds inline custom text to a selection. For multi-shaped
// selections the custom text composes ahead of any referenced titles.
func (s Selection) WithCustom(text string) Selection {
	s.Custom = true
	s.CustomText = text
	return s
}

// Empty reports whether the selection resolves to nothing: skipped, or
// neither custom text nor any title reference.
func (s Selection) Empty() bool {
	return s.Skip || (!s.Custom && len(s.Titles) == 0)
}
