package render

import (
	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/errors"
)

// Theme holds the colors shared by every renderer, so an exported SVG, a
// DOT diagram, and the interactive viewer all agree on what an object or a
// string looks like.
type Theme struct {
	Name       string
	Background string
	Text       string
	NodeStroke string
	EdgeStroke string

	ObjectFill  string
	ArrayFill   string
	StringFill  string
	NumberFill  string
	BooleanFill string
	NullFill    string
}

// Light is the default theme.
var Light = Theme{
	Name:       "light",
	Background: "#ffffff",
	Text:       "#1f2937",
	NodeStroke: "#9ca3af",
	EdgeStroke: "#9ca3af",

	ObjectFill:  "#e0e7ff",
	ArrayFill:   "#d1fae5",
	StringFill:  "#fef3c7",
	NumberFill:  "#dbeafe",
	BooleanFill: "#fce7f3",
	NullFill:    "#f3f4f6",
}

// Dark mirrors Light with fills readable on a dark background.
var Dark = Theme{
	Name:       "dark",
	Background: "#111827",
	Text:       "#f9fafb",
	NodeStroke: "#4b5563",
	EdgeStroke: "#6b7280",

	ObjectFill:  "#312e81",
	ArrayFill:   "#064e3b",
	StringFill:  "#78350f",
	NumberFill:  "#1e3a8a",
	BooleanFill: "#831843",
	NullFill:    "#374151",
}

// ThemeByName resolves a theme name from config or a --theme flag.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme: %s", name)
	}
}

// Fill returns the node fill color for a value kind.
func (t Theme) Fill(k document.Kind) string {
	switch k {
	case document.KindObject:
		return t.ObjectFill
	case document.KindArray:
		return t.ArrayFill
	case document.KindString:
		return t.StringFill
	case document.KindNumber:
		return t.NumberFill
	case document.KindBool:
		return t.BooleanFill
	default:
		return t.NullFill
	}
}
