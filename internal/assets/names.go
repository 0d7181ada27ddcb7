package assets

// DefaultStyleName is the built-in stylesheet used when none is configured.
const DefaultStyleName = "classic"

// Template names shipped with the embedded loader.
const (
	PageTemplateName   = "page"
	ResumeTemplateName = "resume"
)
