// Package segmenter splits pasted source code into documentable units.
package segmenter

import "strings"

// Kind identifies what a Unit spans.
type Kind string

const (
	KindFile     Kind = "file"
	KindFunction Kind = "function"
	KindClass    Kind = "class"
)

// Title returns the kind with its first letter upper-cased, for headings.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Unit is one span of source code selected for independent explanation.
type Unit struct {
	// SourceLabel is the nominal filename used for display and language inference.
	SourceLabel string `json:"source_label" yaml:"source_label"`

	// Kind is file, function, or class.
	Kind Kind `json:"kind" yaml:"kind"`

	// Name equals SourceLabel for file units, otherwise the declared identifier.
	Name string `json:"name" yaml:"name"`

	// Code is the verbatim source span for this unit.
	Code string `json:"code" yaml:"code"`
}

// IsFile reports whether the unit covers the whole input rather than a named definition.
func (u Unit) IsFile() bool {
	return u.Name == u.SourceLabel
}
