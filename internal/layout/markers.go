package layout

// Markers names the CSS classes that delimit blocks in a rendered résumé.
// The measurer reads them and the synthesizer writes them back, so both
// sides must share one value.
type Markers struct {
	Container    string `json:"container"`
	Header       string `json:"header"`
	Section      string `json:"section"`
	SectionTitle string `json:"sectionTitle"`
	Item         string `json:"item"`
	Grid         string `json:"grid"`
}

// DefaultMarkers is the class vocabulary produced by the résumé renderer.
var DefaultMarkers = Markers{
	Container:    "resume-container",
	Header:       "header",
	Section:      "section",
	SectionTitle: "section-title",
	Item:         "item",
	Grid:         "compact-grid",
}

// Selector returns the CSS class selector for a marker class.
func Selector(class string) string {
	return "." + class
}
