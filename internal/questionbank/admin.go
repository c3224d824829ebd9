package questionbank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rylalabs/ryla/internal/store"
)

// PathQuizzes is the global root of admin-authored quizzes.
const PathQuizzes = "quizzes"

type adminQuiz struct {
	Title     string                   `json:"title"`
	Questions map[string]adminQuestion `json:"questions"`
}

type adminQuestion struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// LoadAdmin reads every admin-authored question from the unscoped store,
// ordered by quiz id then question id. Items that fail validation are
// skipped with a warning. Question ids are prefixed with their quiz id so
// they stay unique across quizzes.
func LoadAdmin(ctx context.Context, ps store.ProgressStore, logger *slog.Logger) ([]Question, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var quizzes map[string]adminQuiz
	ok, err := store.Decode(ctx, ps, PathQuizzes, &quizzes)
	if err != nil {
		if store.IsPersistence(err) {
			return nil, fmt.Errorf("load admin questions: %w", err)
		}
		logger.Warn("admin quizzes unreadable, ignoring", "err", err)
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	quizIDs := make([]string, 0, len(quizzes))
	for id := range quizzes {
		quizIDs = append(quizIDs, id)
	}
	sort.Strings(quizIDs)

	var out []Question
	for _, quizID := range quizIDs {
		qs := quizzes[quizID].Questions
		keys := make([]string, 0, len(qs))
		for k := range qs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			aq := qs[k]
			q := Question{
				ID:            quizID + "-" + k,
				Text:          strings.TrimSpace(aq.Text),
				Options:       aq.Options,
				CorrectAnswer: aq.CorrectAnswer,
				Tier:          TierAdmin,
			}
			if err := q.Validate(); err != nil {
				logger.Warn("skipping admin question", "quiz", quizID, "question", k, "err", err)
				continue
			}
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

// AddAdminQuestion stores a new question under quizID and returns its
// generated key. The quiz title is set when given.
func AddAdminQuestion(ctx context.Context, ps store.ProgressStore, quizID, title string, q Question) (string, error) {
	if strings.TrimSpace(quizID) == "" || strings.Contains(quizID, "/") {
		return "", fmt.Errorf("add admin question: invalid quiz id %q", quizID)
	}

	key := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	q.ID = key
	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("add admin question: %w", err)
	}

	fields := map[string]any{
		key: adminQuestion{
			ID:            key,
			Text:          strings.TrimSpace(q.Text),
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		},
	}
	if err := ps.Update(ctx, store.Join(PathQuizzes, quizID, "questions"), fields); err != nil {
		return "", fmt.Errorf("add admin question: %w", err)
	}
	if title != "" {
		if err := ps.Set(ctx, store.Join(PathQuizzes, quizID, "title"), title); err != nil {
			return "", fmt.Errorf("set quiz title: %w", err)
		}
	}
	return key, nil
}
