package models

// Importance is the to-do priority level of a note.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// Rank returns the position of the level in the total order
// high > normal > low. Unknown values rank below low.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceNormal:
		return 2
	case ImportanceLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the value is one of the known levels.
func (i Importance) Valid() bool {
	return i == ImportanceLow || i == ImportanceNormal || i == ImportanceHigh
}
