package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rylalabs/ryla/internal/llm"
	"github.com/rylalabs/ryla/internal/questionbank"
	"github.com/rylalabs/ryla/internal/quiz"
	"github.com/rylalabs/ryla/internal/store"
	"github.com/rylalabs/ryla/internal/writing"
)

// Config is the application configuration.
type Config struct {
	// UserID scopes every progress path under users/{UserID}.
	UserID string

	QuestionsPerTier int
	MinWritingWords  int

	// Language picks the placement bank, the lesson path and the writing
	// rubric. It is one of questionbank.Languages.
	Language string

	// HeuristicClassifier swaps the LLM writing classifier for the
	// offline length and punctuation estimate.
	HeuristicClassifier bool

	StoreRetry store.RetryConfig
	LLM        llm.Config
}

// Load reads the given .env files (default ".env"; missing files are
// fine) and then the RYLA_* environment. Variables already set in the
// environment win over the files.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		UserID:           getenvDefault("USER_ID", "local"),
		QuestionsPerTier: quiz.DefaultPerTier,
		MinWritingWords:  writing.DefaultMinWords,
		Language:         getenvDefault("LANGUAGE", "French"),
		StoreRetry:       store.DefaultRetryConfig(),
	}
	if strings.Contains(cfg.UserID, "/") {
		return cfg, fmt.Errorf("%sUSER_ID must not contain '/'", llm.EnvPrefix)
	}
	lang, ok := questionbank.CanonicalLanguage(cfg.Language)
	if !ok {
		return cfg, fmt.Errorf("%sLANGUAGE must be one of %s, got %q",
			llm.EnvPrefix, strings.Join(questionbank.Languages(), ", "), cfg.Language)
	}
	cfg.Language = lang

	var err error
	if cfg.QuestionsPerTier, err = getenvInt("QUESTIONS_PER_TIER", cfg.QuestionsPerTier); err != nil {
		return cfg, err
	}
	if cfg.MinWritingWords, err = getenvInt("MIN_WRITING_WORDS", cfg.MinWritingWords); err != nil {
		return cfg, err
	}
	if cfg.StoreRetry.MaxAttempts, err = getenvInt("STORE_MAX_ATTEMPTS", cfg.StoreRetry.MaxAttempts); err != nil {
		return cfg, err
	}

	switch v := strings.ToLower(os.Getenv(llm.EnvPrefix + "CLASSIFIER")); v {
	case "", "llm":
	case "heuristic", "offline":
		cfg.HeuristicClassifier = true
	default:
		return cfg, fmt.Errorf("%sCLASSIFIER must be llm or heuristic, got %q", llm.EnvPrefix, v)
	}

	cfg.LLM, err = llm.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	// Without explicit RYLA_ settings, fall back to a vendor key from the
	// usual environment variables.
	if !cfg.LLM.HasKey() && os.Getenv(llm.EnvPrefix+"LLM_PROVIDER") == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			found.Timeout = cfg.LLM.Timeout
			found.Retry = cfg.LLM.Retry
			cfg.LLM = found
		}
	}
	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(llm.EnvPrefix + k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) (int, error) {
	v := os.Getenv(llm.EnvPrefix + k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback, fmt.Errorf("%s%s must be a positive integer, got %q", llm.EnvPrefix, k, v)
	}
	return n, nil
}
