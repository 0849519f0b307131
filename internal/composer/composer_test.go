package composer

import (
	"strings"
	"testing"

	"github.com/leefowlercu/codedoc/internal/narrator"
	"github.com/leefowlercu/codedoc/internal/segmenter"
)

func annotated(kind segmenter.Kind, name, explanation string) narrator.AnnotatedUnit {
	label := "pasted_code.py"
	if kind == segmenter.KindFile {
		name = label
	}
	return narrator.AnnotatedUnit{
		Unit: segmenter.Unit{
			SourceLabel: label,
			Kind:        kind,
			Name:        name,
			Code:        "pass",
		},
		Explanation: explanation,
	}
}

func TestCompose_Empty(t *testing.T) {
	if got := Compose(nil); got != EmptyPlaceholder {
		t.Errorf("Compose(nil) = %q, want %q", got, EmptyPlaceholder)
	}
	if got := Compose([]narrator.AnnotatedUnit{}); got != EmptyPlaceholder {
		t.Errorf("Compose(empty) = %q, want %q", got, EmptyPlaceholder)
	}
}

func TestCompose_Layout(t *testing.T) {
	got := Compose([]narrator.AnnotatedUnit{
		annotated(segmenter.KindFunction, "add", "Adds numbers."),
	})

	want := "# AI-Generated Code Documentation\n\n" +
		"## Function: `add`\n\n" +
		"Adds numbers.\n\n" +
		"---\n\n"

	if got != want {
		t.Errorf("Compose() =\n%q\nwant\n%q", got, want)
	}
}

func TestCompose_Headings(t *testing.T) {
	tests := []struct {
		name string
		unit narrator.AnnotatedUnit
		want string
	}{
		{"file", annotated(segmenter.KindFile, "", "x"), "## File: `pasted_code.py`"},
		{"function", annotated(segmenter.KindFunction, "add", "x"), "## Function: `add`"},
		{"class", annotated(segmenter.KindClass, "Greeter", "x"), "## Class: `Greeter`"},
		{"missing kind", annotated("", "thing", "x"), "## Code block: `thing`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Heading(tt.unit); got != tt.want {
				t.Errorf("Heading() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompose_MissingExplanation(t *testing.T) {
	got := Compose([]narrator.AnnotatedUnit{annotated(segmenter.KindClass, "A", "")})
	if !strings.Contains(got, MissingExplanation) {
		t.Errorf("Compose() should contain %q, got %q", MissingExplanation, got)
	}
}

func TestCompose_PreservesOrder(t *testing.T) {
	units := []narrator.AnnotatedUnit{
		annotated(segmenter.KindFunction, "zeta", "z"),
		annotated(segmenter.KindClass, "Alpha", "a"),
		annotated(segmenter.KindFunction, "zeta", "z again"),
		annotated(segmenter.KindFunction, "mid", "m"),
	}

	got := Compose(units)

	last := -1
	for _, u := range []string{"## Function: `zeta`", "## Class: `Alpha`"} {
		idx := strings.Index(got, u)
		if idx <= last {
			t.Fatalf("heading %q out of order in\n%s", u, got)
		}
		last = idx
	}

	if strings.Count(got, "## Function: `zeta`") != 2 {
		t.Error("Compose() must not deduplicate units")
	}
	if strings.Count(got, "---\n") != len(units) {
		t.Errorf("Compose() separators = %d, want %d", strings.Count(got, "---\n"), len(units))
	}
	if strings.Index(got, "z again") > strings.Index(got, "## Function: `mid`") {
		t.Error("third unit rendered after the fourth")
	}
}
