package party

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownLabel = errors.New("unknown party label")

// Label is the closed set of classes. Declaration order is the tie-break
// order used by the classifier and the row/column order of reports.
type Label uint8

const (
	Democratic Label = iota
	Republican

	NumLabels = 2
)

var names = [NumLabels]string{"Democratic", "Republican"}

var aliases = map[string]Label{
	"democratic": Democratic,
	"democrat":   Democratic,
	"d":          Democratic,
	"republican": Republican,
	"r":          Republican,
}

// All returns every label in declaration order.
func All() []Label {
	return []Label{Democratic, Republican}
}

func (l Label) Valid() bool {
	return int(l) < NumLabels
}

func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
	return names[l]
}

// Parse maps a source label value to a Label.
func Parse(s string) (Label, error) {
	if l, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}
