package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/llm"
	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/store"
	"github.com/rylalabs/ryla/internal/ui/theme"
	"github.com/rylalabs/ryla/internal/writing"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Audit the writing classifier's LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent classifier calls with the level each one returned",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the rubric, sample and answer of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize classifier usage, cost and assigned levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No LLM usage recorded yet.")
			return nil
		}
		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		evals, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Purpose: writing.Purpose})
		if err != nil {
			return fmt.Errorf("query evaluations: %w", err)
		}

		out := cmd.OutOrStdout()
		printUsage(out, byPurpose)
		fmt.Fprintln(out)
		printCost(out, byModel)
		fmt.Fprintln(out)
		printLevelSpread(out, evals)
		return nil
	},
}

// eventLevel returns the writing level a classifier call produced, or
// "-" for failed calls and other purposes.
func eventLevel(e store.LLMRequestEventRecord) string {
	if e.Purpose != writing.Purpose || !e.Success {
		return "-"
	}
	if l, ok := writing.LevelFromResponse(e.ResponseBody); ok {
		return l.String()
	}
	return "?"
}

func printEvents(w io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No classifier calls recorded.")
		return
	}
	fmt.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("%-5s  %-16s  %-12s  %-24s  %-12s  %6s  %s",
		"ID", "When", "Purpose", "Model", "Level", "Ms", "OK")))
	for _, e := range events {
		ok := theme.Correct.Render("✓")
		if !e.Success {
			ok = theme.Incorrect.Render("✗")
		}
		fmt.Fprintf(w, "%-5d  %-16s  %-12s  %-24s  %-12s  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			truncate(e.Purpose, 12),
			truncate(e.Model, 24),
			eventLevel(e),
			e.LatencyMs,
			ok)
	}
}

func printEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("Call %d", e.ID)))
	fields := [][2]string{
		{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
		{"Model", e.Provider + "/" + e.Model},
		{"Purpose", e.Purpose},
		{"Level", eventLevel(*e)},
		{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", theme.Incorrect.Render(e.ErrorMessage)})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0], f[1])
	}
	section(w, "Request", e.RequestBody)
	section(w, "Response", e.ResponseBody)
}

func section(w io.Writer, title, body string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Subtitle.Render("── "+title+" "+strings.Repeat("─", 40)))
	if body == "" {
		body = theme.Hint.Render("(not captured)")
	}
	fmt.Fprintln(w, body)
}

func printUsage(w io.Writer, stats []store.LLMUsageStats) {
	fmt.Fprintln(w, theme.Title.Render("Usage"))
	fmt.Fprintf(w, "%-14s  %6s  %9s  %9s  %7s\n", "Purpose", "Calls", "In", "Out", "Avg ms")
	for _, st := range stats {
		fmt.Fprintf(w, "%-14s  %6d  %9d  %9d  %7d\n",
			truncate(st.Purpose, 14), st.Calls, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
	}
}

func printCost(w io.Writer, usage []store.LLMModelUsage) {
	fmt.Fprintln(w, theme.Title.Render("Estimated cost (USD)"))
	var (
		total   float64
		unknown []string
	)
	for _, mu := range usage {
		price := llm.LookupCost(mu.Model)
		if price == nil {
			unknown = append(unknown, mu.Model)
			fmt.Fprintf(w, "%-28s  %6d calls  %9s\n", truncate(mu.Model, 28), mu.Calls, "?")
			continue
		}
		c := price.Cost(mu.InputTokens, mu.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-28s  %6d calls  %9s\n", truncate(mu.Model, 28), mu.Calls, formatCost(c))
	}
	label := "Total"
	if len(unknown) > 0 {
		label = "Total (partial)"
	}
	fmt.Fprintf(w, "%-28s  %12s  %9s\n", label, "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintln(w, theme.Hint.Render("No pricing for: "+strings.Join(unknown, ", ")))
	}
}

// printLevelSpread counts the levels the classifier has assigned.
func printLevelSpread(w io.Writer, evals []store.LLMRequestEventRecord) {
	fmt.Fprintln(w, theme.Title.Render("Writing levels assigned"))
	counts := make(map[proficiency.Level]int)
	failed := 0
	for _, e := range evals {
		l, ok := writing.LevelFromResponse(e.ResponseBody)
		if !e.Success || !ok {
			failed++
			continue
		}
		counts[l]++
	}
	for _, l := range proficiency.All() {
		fmt.Fprintf(w, "%-14s  %6d\n", l.DisplayName(), counts[l])
	}
	if failed > 0 {
		fmt.Fprintf(w, "%-14s  %6d\n", "Unclassified", failed)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", writing.Purpose, "Filter by purpose (empty for all)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
