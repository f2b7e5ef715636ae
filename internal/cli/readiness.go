package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimlens/internal/sufficiency"
)

// readinessCmd represents the readiness command
var readinessCmd = &cobra.Command{
	Use:   "readiness <claim-id>",
	Short: "Evaluate whether a claim's documents are sufficient for indexing",
	Long: `Readiness checks the claim's uploaded documents against the
sufficiency thresholds: document count, distinct types, key evidence
types, and total content size. The verdict is recomputed from current
records on every call.

Example:
  claimlens readiness CLM-2025-001
  claimlens readiness CLM-2025-001 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runReadiness,
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}

func runReadiness(cmd *cobra.Command, args []string) error {
	claimID := args[0]
	cfg := loadConfig()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	analysis, err := sufficiency.NewEvaluator(s).Evaluate(ctx, claimID)
	if err != nil {
		return fmt.Errorf("evaluate readiness: %w", err)
	}

	if cfg.Output.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	verdict := "NOT READY"
	if analysis.Ready {
		verdict = "READY"
	}
	fmt.Printf("Claim %s: %s\n", analysis.ClaimID, verdict)
	fmt.Printf("  %s\n", analysis.Reason)
	fmt.Printf("  documents: %d\n", analysis.TotalDocuments)
	fmt.Printf("  types:     %d %v\n", len(analysis.DistinctTypes), analysis.DistinctTypes)
	fmt.Printf("  size:      %.1f MB\n", analysis.SizeMBTotal)
	return nil
}
