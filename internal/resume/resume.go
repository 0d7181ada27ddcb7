// Package resume renders the structured résumé document (YAML or JSON) to
// the marker-class HTML the exporter paginates.
package resume

import (
	"errors"
	"fmt"

	"github.com/alnah/go-resumepdf/internal/yamlutil"
)

// Section types.
const (
	TypeExperience = "experience"
	TypeGeneric    = "generic"
	TypeText       = "text"
)

var (
	ErrInvalidResume = errors.New("invalid resume data")
	ErrRender        = errors.New("resume rendering failed")
)

type Resume struct {
	Basics   Basics    `yaml:"basics"`
	Sections []Section `yaml:"sections"`
}

type Basics struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

// Section is one titled block of the résumé. Items is used by experience
// and generic sections, Content by text sections.
type Section struct {
	Type    string `yaml:"type"`
	Title   string `yaml:"title"`
	Items   []Item `yaml:"items"`
	Content string `yaml:"content"`
}

// Item carries the union of experience and generic fields; each section
// type reads its own subset.
type Item struct {
	// experience
	Organization string   `yaml:"organization"`
	DateStart    string   `yaml:"date_start"`
	DateEnd      string   `yaml:"date_end"`
	Location     string   `yaml:"location"`
	Highlights   []string `yaml:"highlights"`

	// shared
	Title string `yaml:"title"`

	// generic
	Subtitle    string `yaml:"subtitle"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
}

// Decode parses a résumé. JSON is accepted as it is valid YAML. Unknown
// fields are ignored so documents from other tools still load.
func Decode(data []byte) (*Resume, error) {
	var r Resume
	if err := yamlutil.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResume, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate rejects section types the renderer does not know.
func (r *Resume) Validate() error {
	for i, s := range r.Sections {
		switch s.Type {
		case TypeExperience, TypeGeneric, TypeText:
		case "":
			return fmt.Errorf("%w: section %d has no type", ErrInvalidResume, i)
		default:
			return fmt.Errorf("%w: section %d has unknown type %q", ErrInvalidResume, i, s.Type)
		}
	}
	if r.Basics.Name == "" && len(r.Sections) == 0 {
		return fmt.Errorf("%w: neither basics.name nor sections are set", ErrInvalidResume)
	}
	return nil
}
