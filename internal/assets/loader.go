package assets

// AssetLoader loads stylesheets and templates by bare name (no extension).
type AssetLoader interface {
	// LoadStyle returns ErrStyleNotFound when the style does not exist and
	// ErrInvalidAssetName when the name is unsafe.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns ErrTemplateNotFound when the template does not
	// exist and ErrInvalidAssetName when the name is unsafe.
	LoadTemplate(name string) (string, error)
}
