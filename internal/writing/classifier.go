package writing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/rylalabs/ryla/internal/llm"
	"github.com/rylalabs/ryla/internal/proficiency"
)

// TextClassifier maps a free-text sample to a proficiency level using the
// given rubric. Implementations return exactly one of the three canonical
// levels or an error.
type TextClassifier interface {
	Classify(ctx context.Context, text, rubric string) (proficiency.Level, error)
}

var rubricTemplate = template.Must(template.New("rubric").Parse(`As a {{.Language}} language expert, evaluate the following text written in {{.Language}}.
Analyze grammar, vocabulary, sentence structure, and overall coherence.
Categorize the writer as:
- Beginner (A1-A2): Basic communication, simple sentences, common mistakes
- Intermediate (B1-B2): Good flow, some complex structures, occasional errors
- Expert (C1-C2): Sophisticated vocabulary, complex structures, natural flow
Respond with ONLY ONE of these words: "beginner", "intermediate", or "expert"`))

// Rubric renders the evaluation prompt for language.
func Rubric(language string) (string, error) {
	var buf bytes.Buffer
	if err := rubricTemplate.Execute(&buf, struct{ Language string }{language}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LevelSchema constrains the model to a single canonical level.
var LevelSchema = &llm.Schema{
	Name:        "writing-level",
	Description: "The proficiency level of the writing sample",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"level": map[string]any{
				"type": "string",
				"enum": []string{"beginner", "intermediate", "expert"},
			},
		},
		"required":             []string{"level"},
		"additionalProperties": false,
	},
}

// Purpose labels classifier calls in the LLM audit log.
const Purpose = "writing-eval"

// LevelFromResponse reads the level out of a logged classifier response.
func LevelFromResponse(body string) (proficiency.Level, bool) {
	var out levelOutput
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return proficiency.Absent, false
	}
	l, err := canonical(out.Level)
	return l, err == nil
}

// LLMClassifierConfig holds generation settings.
type LLMClassifierConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMClassifierConfig returns the settings used for evaluation.
func DefaultLLMClassifierConfig() LLMClassifierConfig {
	return LLMClassifierConfig{
		MaxTokens:   50,
		Temperature: 0.3,
	}
}

// LLMClassifier classifies writing with a language model.
type LLMClassifier struct {
	provider llm.Provider
	cfg      LLMClassifierConfig
}

// NewLLMClassifier creates an LLM-backed classifier.
func NewLLMClassifier(provider llm.Provider, cfg LLMClassifierConfig) *LLMClassifier {
	return &LLMClassifier{provider: provider, cfg: cfg}
}

type levelOutput struct {
	Level string `json:"level"`
}

// Classify sends the rubric as the system prompt and text as the user
// message.
func (c *LLMClassifier) Classify(ctx context.Context, text, rubric string) (proficiency.Level, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.UserPrompt(rubric, text)
	req.Schema = LevelSchema
	req.MaxTokens = c.cfg.MaxTokens
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return proficiency.Absent, err
	}

	var out levelOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return proficiency.Absent, fmt.Errorf("parse level response: %w", err)
	}
	return canonical(out.Level)
}

// canonical accepts only the three writing labels, not the quiz's
// "advanced" spelling.
func canonical(label string) (proficiency.Level, error) {
	l, err := proficiency.Parse(label)
	if err != nil || !l.Valid() || l.String() != strings.ToLower(strings.TrimSpace(label)) {
		return proficiency.Absent, fmt.Errorf("unexpected level %q", label)
	}
	return l, nil
}

var complexPunct = regexp.MustCompile(`[;:(),]`)

// HeuristicClassifier estimates a level from length and punctuation. It
// needs no network and is meant for development.
type HeuristicClassifier struct{}

// Classify ignores the rubric.
func (HeuristicClassifier) Classify(_ context.Context, text, _ string) (proficiency.Level, error) {
	n := WordCount(text)
	switch {
	case n < 50:
		return proficiency.Beginner, nil
	case n < 100 || !complexPunct.MatchString(text):
		return proficiency.Intermediate, nil
	default:
		return proficiency.Expert, nil
	}
}
