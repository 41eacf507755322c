package ir

import "fmt"

// Score is a confidence in per-mille (0..1000). Integers keep plans
// hashable without floats.
type Score int

// Fixed binding scores.
const (
	ScoreEntity     Score = 900
	ScoreConcept    Score = 950
	ScoreCategory   Score = 950
	ScoreSimilarity Score = 700
)

// String renders the score as a decimal fraction, e.g. 0.950.
func (s Score) String() string {
	return fmt.Sprintf("%d.%03d", int(s)/1000, int(s)%1000)
}

// ValueKind is how a value token was resolved.
type ValueKind string

const (
	ValueKindConcept  ValueKind = "concept"
	ValueKindCategory ValueKind = "category"
)

// EntityBinding maps an entity-like token to a table.
type EntityBinding struct {
	Token string `json:"token"`
	Table string `json:"table"`
	Score Score  `json:"score"`
}

// ValueBinding maps a value token to table.column = value.
type ValueBinding struct {
	Token  string    `json:"token"`
	Table  string    `json:"table"`
	Column string    `json:"column"`
	Value  string    `json:"value"`
	Score  Score     `json:"score"`
	Kind   ValueKind `json:"kind"`
}

// NegationBinding is a negated concept owned by Table. Pattern keeps the
// original phrase ("no referral").
type NegationBinding struct {
	Concept string `json:"concept"`
	Table   string `json:"table"`
	Pattern string `json:"pattern"`
}

// Direction is the side of "now" a relative window covers.
type Direction string

const (
	DirectionPast   Direction = "past"
	DirectionFuture Direction = "future"
)

// TimeUnit is the granularity of a relative window.
type TimeUnit string

const (
	UnitDay     TimeUnit = "day"
	UnitWeek    TimeUnit = "week"
	UnitMonth   TimeUnit = "month"
	UnitQuarter TimeUnit = "quarter"
	UnitYear    TimeUnit = "year"
)

// ParseTimeUnit accepts singular or plural unit names.
func ParseTimeUnit(s string) (TimeUnit, bool) {
	switch s {
	case "day", "days":
		return UnitDay, true
	case "week", "weeks":
		return UnitWeek, true
	case "month", "months":
		return UnitMonth, true
	case "quarter", "quarters":
		return UnitQuarter, true
	case "year", "years":
		return UnitYear, true
	}
	return "", false
}

// RelativeWindow is a window of Value units before or after now.
type RelativeWindow struct {
	Unit      TimeUnit  `json:"unit"`
	Value     int       `json:"value"`
	Direction Direction `json:"direction"`
}

// String renders e.g. "3 month past".
func (w RelativeWindow) String() string {
	return fmt.Sprintf("%d %s %s", w.Value, w.Unit, w.Direction)
}

// TemporalBinding is a resolved time window. AppliesTo stays empty until
// the assembler binds it to the anchor's date column.
type TemporalBinding struct {
	Token     string         `json:"token"`
	Window    RelativeWindow `json:"window"`
	Coerced   bool           `json:"coerced,omitempty"`
	AppliesTo string         `json:"applies_to,omitempty"`
}
