package layout

import (
	"fmt"
	"strings"
)

// Kind selects a layout policy.
type Kind int

// Supported layout kinds. The zero value is Grid.
const (
	Grid Kind = iota
	PictureInPicture
	SideBySide
	StackedRows
	Featured
)

var kindNames = [...]string{
	Grid:             "grid",
	PictureInPicture: "pip",
	SideBySide:       "side-by-side",
	StackedRows:      "stacked-rows",
	Featured:         "featured",
}

var kindTitles = [...]string{
	Grid:             "Grid",
	PictureInPicture: "Picture-in-Picture",
	SideBySide:       "Side by Side",
	StackedRows:      "Stacked Rows",
	Featured:         "Featured",
}

// aliases maps alternate spellings accepted by ParseKind.
var aliases = map[string]Kind{
	"picture-in-picture": PictureInPicture,
	"sidebyside":         SideBySide,
	"side_by_side":       SideBySide,
	"stackedrows":        StackedRows,
	"stacked_rows":       StackedRows,
	"stacked":            StackedRows,
}

// Kinds returns all supported kinds in display order.
func Kinds() []Kind {
	return []Kind{Grid, PictureInPicture, SideBySide, StackedRows, Featured}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= Grid && k <= Featured
}

// String returns the canonical lowercase name, e.g. "side-by-side".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title returns the human-readable name shown in menus.
func (k Kind) Title() string {
	if !k.Valid() {
		return k.String()
	}
	return kindTitles[k]
}

// Next returns the kind following k in display order, wrapping around.
func (k Kind) Next() Kind {
	if !k.Valid() {
		return Grid
	}
	return (k + 1) % Kind(len(kindNames))
}

// ParseKind parses a layout name. Matching is case-insensitive and accepts
// the canonical names plus a few common spellings ("sideBySide", "stacked").
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	return Grid, fmt.Errorf("unknown layout %q (want one of %s)", s, strings.Join(kindNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid layout kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
