package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/analytics"
	"github.com/jonathan/talent-match/internal/cache"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/recommend"
	"github.com/jonathan/talent-match/internal/types"
)

var (
	recommendCandidate string
	recommendJob       string
	recommendLimit     int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print ranked recommendations for a candidate or a job",
	Long: `Run the recommendation engine once against the database and print a ranked
table. Use --candidate to recommend jobs for a candidate, or --job to
recommend candidates for a job posting.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendCandidate, "candidate", "c", "", "Candidate ID to recommend jobs for")
	recommendCmd.Flags().StringVarP(&recommendJob, "job", "j", "", "Job posting ID to recommend candidates for")
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", recommend.DefaultLimit, "Maximum number of recommendations")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	if (recommendCandidate == "") == (recommendJob == "") {
		return fmt.Errorf("exactly one of --candidate or --job is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	// One-shot run: in-process cache, no analytics writes.
	engine := recommend.NewEngine(database, cache.NewMemory(), analytics.Nop{}, log, recommend.DefaultTuning())

	var result *recommend.Result
	if recommendCandidate != "" {
		candidateID, err := uuid.Parse(recommendCandidate)
		if err != nil {
			return fmt.Errorf("invalid candidate id: %w", err)
		}
		result = engine.RecommendJobs(ctx, candidateID, recommendLimit)
	} else {
		jobID, err := uuid.Parse(recommendJob)
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		result = engine.RecommendCandidates(ctx, jobID, recommendLimit)
	}

	if result.Denied {
		return fmt.Errorf("access denied: subject is not eligible for this recommendation type")
	}

	printEntries(result.Entries)
	return nil
}

func printEntries(entries []types.RecommendationEntry) {
	if len(entries) == 0 {
		fmt.Println("No recommendations.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tTYPE\tSUBJECT\tREASONS")
	for i, entry := range entries {
		subject := ""
		switch {
		case entry.Job != nil:
			subject = fmt.Sprintf("%s @ %s", entry.Job.Title, entry.Job.Company)
		case entry.Candidate != nil:
			subject = fmt.Sprintf("%s (%s)", entry.Candidate.Name, entry.Candidate.Position)
		}
		fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\t%s\n",
			i+1, entry.Score, entry.Type, subject, strings.Join(entry.Reasons, "; "))
	}
	_ = w.Flush()
}
