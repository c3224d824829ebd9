package proficiency

import (
	"fmt"
	"math"
	"strings"
)

// Level is a learner's proficiency. The zero value means no level has been
// assessed.
type Level int

const (
	Absent Level = iota
	Beginner
	Intermediate
	Expert
)

// All returns the assessed levels in ascending order.
func All() []Level {
	return []Level{Beginner, Intermediate, Expert}
}

// Valid reports whether l is one of the three assessed levels.
func (l Level) Valid() bool {
	return l >= Beginner && l <= Expert
}

// Rank orders the assessed levels from 0 (beginner) to 2 (expert).
// Absent ranks -1.
func (l Level) Rank() int {
	if !l.Valid() {
		return -1
	}
	return int(l) - 1
}

// String returns the canonical spelling.
func (l Level) String() string {
	switch l {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return ""
	}
}

// DisplayName returns a capitalized label for reports.
func (l Level) DisplayName() string {
	switch l {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Expert:
		return "Expert"
	default:
		return "Not assessed"
	}
}

// quizLabels is the legacy spelling emitted by the quiz path, which names
// its top band "advanced".
var quizLabels = map[Level]string{
	Beginner:     "beginner",
	Intermediate: "intermediate",
	Expert:       "advanced",
}

// QuizLabel returns the legacy quiz spelling of l.
func (l Level) QuizLabel() string {
	return quizLabels[l]
}

// Parse accepts both canonical and legacy spellings, case-insensitively.
// The empty string parses as Absent.
func Parse(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Absent, nil
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "expert", "advanced":
		return Expert, nil
	default:
		return Absent, fmt.Errorf("unknown proficiency level %q", s)
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Band maps a quiz accuracy percentage onto a level. Bands are closed on
// the high side: 25.0 is beginner and 50.0 is intermediate.
func Band(accuracy float64) Level {
	switch {
	case accuracy <= 25:
		return Beginner
	case accuracy <= 50:
		return Intermediate
	default:
		return Expert
	}
}

// RoundAccuracy rounds a percentage to one decimal place.
func RoundAccuracy(pct float64) float64 {
	return math.Round(pct*10) / 10
}

// Reconcile returns the weaker of two levels. An absent level yields the
// other one.
func Reconcile(a, b Level) Level {
	switch {
	case !a.Valid():
		return b
	case !b.Valid():
		return a
	case a.Rank() <= b.Rank():
		return a
	default:
		return b
	}
}
