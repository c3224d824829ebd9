package questionbank

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// DontKnow is the option a quiz session appends to every question. Bank
// questions never carry it themselves.
const DontKnow = "Don't Know"

// Tier is a difficulty band.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierHard         Tier = "hard"
	TierAdmin        Tier = "admin"
)

// SampledTiers returns the tiers a placement quiz samples from, in the
// order they are asked.
func SampledTiers() []Tier {
	return []Tier{TierBeginner, TierIntermediate, TierHard}
}

// AllTiers returns every tier, sampled ones first.
func AllTiers() []Tier {
	return append(SampledTiers(), TierAdmin)
}

// Question is a multiple-choice item.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Tier          Tier     `json:"tier,omitempty"`

	// Context is a short grammar note shown with learned words.
	Context string `json:"context,omitempty"`
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// WithDontKnow returns a copy with the DontKnow option appended.
func (q Question) WithDontKnow() Question {
	c := q.Clone()
	c.Options = append(c.Options, DontKnow)
	return c
}

// Validate checks a single question.
func (q Question) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(q.ID) == "" {
		result = multierror.Append(result, fmt.Errorf("question %q: empty id", q.Text))
	}
	if strings.Contains(q.ID, "/") {
		result = multierror.Append(result, fmt.Errorf("question %q: id contains '/'", q.ID))
	}
	if strings.TrimSpace(q.Text) == "" {
		result = multierror.Append(result, fmt.Errorf("question %q: empty text", q.ID))
	}
	if len(q.Options) < 2 {
		result = multierror.Append(result, fmt.Errorf("question %q: need at least 2 options, got %d", q.ID, len(q.Options)))
	}
	if !slices.Contains(q.Options, q.CorrectAnswer) {
		result = multierror.Append(result, fmt.Errorf("question %q: correct answer %q is not among its options", q.ID, q.CorrectAnswer))
	}
	if slices.Contains(q.Options, DontKnow) {
		result = multierror.Append(result, fmt.Errorf("question %q: options must not include %q", q.ID, DontKnow))
	}
	return result.ErrorOrNil()
}

// Bank maps each tier to its ordered questions.
type Bank map[Tier][]Question

// Validate checks every question and that ids are unique across the bank.
// All problems are reported together.
func (b Bank) Validate() error {
	var result *multierror.Error
	seen := make(map[string]Tier)
	for _, tier := range AllTiers() {
		for _, q := range b[tier] {
			if err := q.Validate(); err != nil {
				result = multierror.Append(result, err)
			}
			if q.Tier != "" && q.Tier != tier {
				result = multierror.Append(result, fmt.Errorf("question %q: tagged %s but listed under %s", q.ID, q.Tier, tier))
			}
			if prev, dup := seen[q.ID]; dup {
				result = multierror.Append(result, fmt.Errorf("question %q: duplicate id (also in %s)", q.ID, prev))
			}
			seen[q.ID] = tier
		}
	}
	for tier := range b {
		if !slices.Contains(AllTiers(), tier) {
			result = multierror.Append(result, fmt.Errorf("unknown tier %q", tier))
		}
	}
	return result.ErrorOrNil()
}

// Count returns the total number of questions.
func (b Bank) Count() int {
	n := 0
	for _, qs := range b {
		n += len(qs)
	}
	return n
}
