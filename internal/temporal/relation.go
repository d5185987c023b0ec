package temporal

import (
	"errors"
	"fmt"
	"strings"
)

// Relation is one of the 13 temporal topological relations defined by
// ISO 19108 (TM_RelativePosition) and exposed by OGC Filter Encoding.
//
// The zero value is not a valid relation; use Valid to check values that
// did not come from one of the constants below.
type Relation uint8

const (
	invalidRelation Relation = iota

	After
	Before
	Equals
	Contains
	During
	Begins
	BegunBy
	Ends
	EndedBy
	Overlaps
	OverlappedBy
	Meets
	MetBy

	relationCount
)

// ErrUnknownRelation is returned when a relation name cannot be parsed.
var ErrUnknownRelation = errors.New("unknown temporal relation")

var relationNames = [relationCount]string{
	After:        "After",
	Before:       "Before",
	Equals:       "Equals",
	Contains:     "Contains",
	During:       "During",
	Begins:       "Begins",
	BegunBy:      "BegunBy",
	Ends:         "Ends",
	EndedBy:      "EndedBy",
	Overlaps:     "Overlaps",
	OverlappedBy: "OverlappedBy",
	Meets:        "Meets",
	MetBy:        "MetBy",
}

// relationAliases maps lower-cased spellings to relations. Besides the plain
// names it accepts the ISO 19108 "TM_" form and the FES 2.0 operator names,
// which prefix the ambiguous ones with "T".
var relationAliases = func() map[string]Relation {
	aliases := map[string]Relation{
		"tequals":   Equals,
		"tcontains": Contains,
		"toverlaps": Overlaps,
	}
	for _, r := range All() {
		name := strings.ToLower(r.String())
		aliases[name] = r
		aliases["tm_"+name] = r
	}
	return aliases
}()

// All returns every relation in declaration order.
func All() []Relation {
	out := make([]Relation, 0, relationCount-1)
	for r := After; r < relationCount; r++ {
		out = append(out, r)
	}
	return out
}

// Valid reports whether r is one of the 13 defined relations.
func (r Relation) Valid() bool {
	return r > invalidRelation && r < relationCount
}

// String returns the OGC name of the relation (e.g. "OverlappedBy").
func (r Relation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Relation(%d)", uint8(r))
	}
	return relationNames[r]
}

// ParseRelation parses a relation name. Matching is case-insensitive and
// accepts "During", "TM_During" and FES names such as "TEquals".
func ParseRelation(name string) (Relation, error) {
	r, ok := relationAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return invalidRelation, fmt.Errorf("%w: %q", ErrUnknownRelation, name)
	}
	return r, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRelation, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(text []byte) error {
	parsed, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
