package segmenter

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// DefaultLabelStem is the filename stem used for pasted snippets.
	DefaultLabelStem = "pasted_code"

	// StructuralTag is the only language tag that is split by definition.
	StructuralTag = "py"
)

// Label synthesizes the nominal filename for a pasted snippet in the given language.
func Label(language string) string {
	return DefaultLabelStem + "." + language
}

// LanguageTag returns the lower-cased text after the last "." in label.
// A label without a "." is returned whole, lower-cased.
func LanguageTag(label string) string {
	if i := strings.LastIndex(label, "."); i >= 0 {
		return strings.ToLower(label[i+1:])
	}
	return strings.ToLower(label)
}

// Segment splits source into documentable units.
//
// Whitespace-only input yields no units. Python input (tag "py") is split into one
// unit per function and class definition; every other language, and Python that
// fails to parse or holds no definitions, yields a single whole-file unit.
func Segment(source, label string) []Unit {
	if strings.TrimSpace(source) == "" {
		return []Unit{}
	}

	var units []Unit
	if LanguageTag(label) == StructuralTag {
		var err error
		units, err = segmentPython(context.Background(), source, label)
		if err != nil {
			slog.Debug("structural parse failed; falling back to whole file",
				"label", label,
				"error", err,
			)
			units = nil
		}
	} else {
		units = []Unit{fileUnit(source, label)}
	}

	if len(units) == 0 {
		return []Unit{fileUnit(source, label)}
	}

	return units
}

func fileUnit(source, label string) Unit {
	return Unit{
		SourceLabel: label,
		Kind:        KindFile,
		Name:        label,
		Code:        source,
	}
}
