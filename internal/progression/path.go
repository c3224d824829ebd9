package progression

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/rylalabs/ryla/internal/questionbank"
)

// Star is one node of the lesson path. It is completed once every one of
// its questions has been answered correctly.
type Star struct {
	Index     int
	Title     string
	Questions []questionbank.Question
}

// RequiredIDs returns the ids of the star's questions.
func (s Star) RequiredIDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

// ValidatePath checks that stars are numbered 1..N in order, that each has
// at least one question, that question ids are unique across the path and
// that every question is well formed.
func ValidatePath(path []Star) error {
	var result *multierror.Error
	if len(path) == 0 {
		return fmt.Errorf("lesson path is empty")
	}

	seen := make(map[string]int)
	for i, s := range path {
		if s.Index != i+1 {
			result = multierror.Append(result, fmt.Errorf("star at position %d has index %d, want %d", i, s.Index, i+1))
		}
		if len(s.Questions) == 0 {
			result = multierror.Append(result, fmt.Errorf("star %d has no questions", s.Index))
		}
		for _, q := range s.Questions {
			if err := q.Validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("star %d: %w", s.Index, err))
			}
			if prev, dup := seen[q.ID]; dup {
				result = multierror.Append(result, fmt.Errorf("question %q appears in star %d and star %d", q.ID, prev, s.Index))
			}
			seen[q.ID] = s.Index
		}
	}
	return result.ErrorOrNil()
}

// FindQuestion locates a question by id.
func FindQuestion(path []Star, id string) (Star, questionbank.Question, bool) {
	for _, s := range path {
		for _, q := range s.Questions {
			if q.ID == id {
				return s, q, true
			}
		}
	}
	return Star{}, questionbank.Question{}, false
}

// FrenchPath returns the built-in French lesson path.
func FrenchPath() []Star {
	return []Star{
		{
			Index: 1,
			Title: "People and pets",
			Questions: []questionbank.Question{
				{
					ID:            "q1",
					Text:          `Which one means "le garçon" in English?`,
					Options:       []string{"woman", "boy", "man"},
					CorrectAnswer: "boy",
					Context:       "le garçon",
				},
				{
					ID:            "q2",
					Text:          `Which one means "dog" in French?`,
					Options:       []string{"le chat", "le chien", "l'oiseau"},
					CorrectAnswer: "le chien",
					Context:       "dog",
				},
			},
		},
		{
			Index: 2,
			Title: "Fruit and vegetables",
			Questions: []questionbank.Question{
				{
					ID:            "star2q1",
					Text:          `Which vegetable is "la pomme de terre" in French?`,
					Options:       []string{"la carotte", "la tomate", "la pomme de terre"},
					CorrectAnswer: "la pomme de terre",
					Context:       "potato",
				},
				{
					ID:            "star2q2",
					Text:          `Which fruit is "la pomme" in French?`,
					Options:       []string{"la banane", "la pomme", "l'orange"},
					CorrectAnswer: "la pomme",
					Context:       "apple",
				},
			},
		},
	}
}

// SpanishPath returns the built-in Spanish lesson path for English
// speakers.
func SpanishPath() []Star {
	return []Star{
		{
			Index: 1,
			Title: "Food and drink",
			Questions: []questionbank.Question{
				{
					ID:            "es-q1",
					Text:          `Which one means "coffee" in Spanish?`,
					Options:       []string{"café", "agua", "pan"},
					CorrectAnswer: "café",
					Context:       "coffee",
				},
				{
					ID:            "es-q2",
					Text:          `Which one means "water" in Spanish?`,
					Options:       []string{"agua", "leche", "jugo"},
					CorrectAnswer: "agua",
					Context:       "water",
				},
			},
		},
		{
			Index: 2,
			Title: "Home and animals",
			Questions: []questionbank.Question{
				{
					ID:            "es-q3",
					Text:          `Which one means "dog" in Spanish?`,
					Options:       []string{"gato", "perro", "pájaro"},
					CorrectAnswer: "perro",
					Context:       "dog",
				},
				{
					ID:            "es-q4",
					Text:          `Which one means "house" in Spanish?`,
					Options:       []string{"casa", "carro", "libro"},
					CorrectAnswer: "casa",
					Context:       "house",
				},
			},
		},
	}
}

// PathForLanguage returns the built-in lesson path for language.
func PathForLanguage(language string) ([]Star, error) {
	l, _ := questionbank.CanonicalLanguage(language)
	build, ok := paths[l]
	if !ok {
		return nil, fmt.Errorf("no lesson path for %q", language)
	}
	return build(), nil
}

var paths = map[string]func() []Star{
	"French":  FrenchPath,
	"Spanish": SpanishPath,
}
