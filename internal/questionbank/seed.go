package questionbank

import (
	"fmt"
	"sort"
	"strings"
)

// French returns the built-in French placement bank. Each call returns a
// fresh copy.
func French() Bank { return copySeed(frenchSeed) }

// Spanish returns the built-in Spanish placement bank for English
// speakers.
func Spanish() Bank { return copySeed(spanishSeed) }

var seeds = map[string]func() Bank{
	"French":  French,
	"Spanish": Spanish,
}

// Languages lists the languages with a built-in bank, sorted.
func Languages() []string {
	out := make([]string, 0, len(seeds))
	for l := range seeds {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// CanonicalLanguage matches name case-insensitively against Languages.
func CanonicalLanguage(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for l := range seeds {
		if strings.EqualFold(l, name) {
			return l, true
		}
	}
	return "", false
}

// ForLanguage returns the built-in bank for language.
func ForLanguage(language string) (Bank, error) {
	l, ok := CanonicalLanguage(language)
	if !ok {
		return nil, fmt.Errorf("no question bank for %q (have %s)", language, strings.Join(Languages(), ", "))
	}
	return seeds[l](), nil
}

func copySeed(seed Bank) Bank {
	b := make(Bank, len(seed))
	for tier, qs := range seed {
		out := make([]Question, len(qs))
		for i, q := range qs {
			q.Tier = tier
			out[i] = q.Clone()
		}
		b[tier] = out
	}
	return b
}

var frenchSeed = Bank{
	TierBeginner: {
		{
			ID:            "fr-b1",
			Text:          "Hier, nous ................ un film intéressant.",
			Options:       []string{"regardons", "avons regardé", "regardions"},
			CorrectAnswer: "avons regardé",
			Context:       "Past tense usage",
		},
		{ID: "fr-b2", Text: "Translate into English: Bonjour.", Options: []string{"Goodbye", "Hello", "Please"}, CorrectAnswer: "Hello"},
		{ID: "fr-b3", Text: "What does 'merci' mean?", Options: []string{"Thank you", "Yes", "Goodbye"}, CorrectAnswer: "Thank you"},
		{ID: "fr-b4", Text: "Choose the correct article for 'pomme':", Options: []string{"Le", "La", "Les"}, CorrectAnswer: "La"},
		{ID: "fr-b5", Text: "Which is a French color?", Options: []string{"Rouge", "Livre", "Porte"}, CorrectAnswer: "Rouge"},
		{ID: "fr-b6", Text: "J'aime ................... chocolat.", Options: []string{"le", "la", "les"}, CorrectAnswer: "le"},
	},
	TierIntermediate: {
		{ID: "fr-i1", Text: "J'aime beaucoup ................ étudiant. Il est très sympathique.", Options: []string{"cette", "ce", "cet"}, CorrectAnswer: "cet"},
		{ID: "fr-i2", Text: "Nous ................ au cinéma demain.", Options: []string{"allons", "allez", "va"}, CorrectAnswer: "allons"},
		{
			ID:            "fr-i3",
			Text:          "Translate: Je voudrais un café, s'il vous plaît.",
			Options:       []string{"I want a coffee, please.", "I would like a coffee, please.", "I am drinking a coffee, please."},
			CorrectAnswer: "I would like a coffee, please.",
		},
		{ID: "fr-i4", Text: "Elle parle ................ son professeur.", Options: []string{"à", "avec", "de"}, CorrectAnswer: "à"},
		{
			ID:            "fr-i5",
			Text:          "Which sentence is correct?",
			Options:       []string{"Elle a un chat noir.", "Elle as un chat noir.", "Elle a une chat noir."},
			CorrectAnswer: "Elle a un chat noir.",
		},
	},
	TierHard: {
		{
			ID:            "fr-h1",
			Text:          "She is smarter than her brother.",
			Options:       []string{"Elle est plus intelligente que son frère.", "Elle est moins intelligente que son frère.", "Elle est aussi intelligente que son frère."},
			CorrectAnswer: "Elle est plus intelligente que son frère.",
		},
		{ID: "fr-h2", Text: "What does 'faire la cuisine' mean?", Options: []string{"To eat in the kitchen", "To cook", "To clean the kitchen"}, CorrectAnswer: "To cook"},
		{
			ID:            "fr-h3",
			Text:          "Choose the correct conjugation: Si j'avais de l'argent, je ................ une nouvelle voiture.",
			Options:       []string{"achète", "achèterai", "achèterais"},
			CorrectAnswer: "achèterais",
			Context:       "Conditional",
		},
		{ID: "fr-h4", Text: "Identify the past participle: Écrire -> ................", Options: []string{"Écrivé", "Écrit", "Écrivant"}, CorrectAnswer: "Écrit"},
	},
}
