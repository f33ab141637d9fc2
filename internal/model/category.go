package model

// Category classifies a project. The set is closed: the database column is
// plain TEXT, so membership is checked in Go (ParseCategory) before anything
// is written or queried.
type Category string

const (
	// CategoryAll is a query-only value meaning "no category filter".
	// It is never stored on a project.
	CategoryAll Category = "all"

	CategoryHTMLCSS    Category = "html-css"
	CategoryJavaScript Category = "javascript"
	CategoryAnimations Category = "animations"
	CategoryGames      Category = "games"
	CategoryFormsUI    Category = "forms-ui"
)

// storedCategories lists every value a project may carry, in display order.
var storedCategories = []Category{
	CategoryHTMLCSS,
	CategoryJavaScript,
	CategoryAnimations,
	CategoryGames,
	CategoryFormsUI,
}

var categoryLabels = map[Category]string{
	CategoryAll:        "All Projects",
	CategoryHTMLCSS:    "HTML/CSS Only",
	CategoryJavaScript: "JavaScript Apps",
	CategoryAnimations: "Animations",
	CategoryGames:      "Interactive Games",
	CategoryFormsUI:    "Forms & UI",
}

// CategoryInfo is a category together with its human-readable label.
type CategoryInfo struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

// StoredCategories returns the categories a project can belong to.
// The returned slice is a copy; callers may modify it.
func StoredCategories() []Category {
	return append([]Category(nil), storedCategories...)
}

// Categories returns every category including the "all" pseudo value,
// which always comes first.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(storedCategories)+1)
	out = append(out, CategoryInfo{Value: CategoryAll, Label: categoryLabels[CategoryAll]})
	for _, c := range storedCategories {
		out = append(out, CategoryInfo{Value: c, Label: categoryLabels[c]})
	}
	return out
}

// IsStored reports whether c may be stored on a project ("all" may not).
func (c Category) IsStored() bool {
	for _, s := range storedCategories {
		if c == s {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw value for unknown categories.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseCategory converts a raw query value into a Category.
// It accepts "all" and every stored category; anything else returns false.
func ParseCategory(raw string) (Category, bool) {
	c := Category(raw)
	if c == CategoryAll || c.IsStored() {
		return c, true
	}
	return "", false
}
