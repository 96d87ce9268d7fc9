package domain

import (
	"fmt"
	"strings"
)

// CopyType selects the structure of a generated GEO copy and whether the
// product price must appear in it.
type CopyType string

// Supported copy types.
const (
	CopyTypeDefinition CopyType = "definition"
	CopyTypeProblem    CopyType = "problem"
	CopyTypeComparison CopyType = "comparison"
	CopyTypeMechanism  CopyType = "mechanism"
	CopyTypeBoundary   CopyType = "boundary"
)

// allCopyTypes keeps the canonical order. Callers get a copy.
var allCopyTypes = [...]CopyType{
	CopyTypeDefinition,
	CopyTypeProblem,
	CopyTypeComparison,
	CopyTypeMechanism,
	CopyTypeBoundary,
}

// AllCopyTypes returns every copy type in canonical order.
func AllCopyTypes() []CopyType {
	out := make([]CopyType, len(allCopyTypes))
	copy(out, allCopyTypes[:])
	return out
}

// CopyTypeCount is the size of the copy type enumeration.
const CopyTypeCount = len(allCopyTypes)

// ParseCopyType converts a raw string into a CopyType.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseCopyType(s string) (CopyType, error) {
	ct := CopyType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCopyType, s)
	}
	return ct, nil
}

// Valid reports whether ct belongs to the enumeration.
func (ct CopyType) Valid() bool {
	switch ct {
	case CopyTypeDefinition, CopyTypeProblem, CopyTypeComparison,
		CopyTypeMechanism, CopyTypeBoundary:
		return true
	default:
		return false
	}
}

// RequiresPrice reports whether copy of this type must state an explicit
// price. Only comparison and boundary copy do.
func (ct CopyType) RequiresPrice() bool {
	return ct == CopyTypeComparison || ct == CopyTypeBoundary
}

// Title returns the display label used inside prompts, e.g. "Comparison".
func (ct CopyType) Title() string {
	if ct == "" {
		return ""
	}
	return strings.ToUpper(string(ct[:1])) + string(ct[1:])
}

func (ct CopyType) String() string {
	return string(ct)
}
