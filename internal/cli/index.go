package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	docRoot      string
	indexTimeout time.Duration
	topK         int
)

// indexCmd represents the index command group
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage per-claim retrieval indexes",
	Long: `Index builds and manages time-bounded retrieval indexes over a
claim's documents. An index is only built when the document corpus
passes the readiness thresholds, and it expires 24 hours after
creation unless configured otherwise.`,
}

var indexCreateCmd = &cobra.Command{
	Use:   "create <claim-id>",
	Short: "Build the claim's retrieval index if it does not exist",
	Long: `Create ensures a live index exists for the claim: documents are
extracted, chunked, embedded, and registered in a similarity
collection. Creating an index that already exists returns the
existing handle without rebuilding.

Example:
  claimlens index create CLM-2025-001 --docs ./documents`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexCreate,
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <claim-id> <question>",
	Short: "Ask a question against the claim's indexed documents",
	Long: `Query builds the claim's index if needed, embeds the question,
and retrieves the best-matching passages grouped by document type.

Example:
  claimlens index query CLM-2025-001 "what does the police report say about fault"`,
	Args: cobra.ExactArgs(2),
	RunE: runIndexQuery,
}

var indexSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired indexes",
	Long:  `Sweep drops every index handle past its lifetime and tears down the backing collections.`,
	Args:  cobra.NoArgs,
	RunE:  runIndexSweep,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexSweepCmd)

	indexCmd.PersistentFlags().StringVar(&docRoot, "docs", ".", "root directory for document files")
	indexCmd.PersistentFlags().DurationVar(&indexTimeout, "timeout", 5*time.Minute, "overall operation timeout")
	indexQueryCmd.Flags().IntVar(&topK, "top-k", 5, "number of chunks to retrieve")
}

func runIndexCreate(cmd *cobra.Command, args []string) error {
	claimID := args[0]
	cfg := loadConfig()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	registry, err := buildRegistry(cfg, s, docRoot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	handle, err := registry.Ensure(ctx, claimID)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if cfg.Output.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(handle)
	}

	fmt.Printf("Index %s for claim %s\n", handle.HandleID, handle.ClaimID)
	fmt.Printf("  collection: %s\n", handle.Collection)
	fmt.Printf("  documents:  %d\n", handle.DocumentCount)
	fmt.Printf("  chunks:     %d\n", handle.ChunkCount)
	fmt.Printf("  expires:    %s\n", handle.ExpiresAt.Format(time.RFC3339))
	return nil
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	claimID, question := args[0], args[1]
	cfg := loadConfig()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	registry, err := buildRegistry(cfg, s, docRoot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	// The registry is process-local, so the index is built on demand.
	if _, err := registry.Ensure(ctx, claimID); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	answer, err := registry.Query(ctx, claimID, question, topK)
	if err != nil {
		return fmt.Errorf("query index: %w", err)
	}

	if cfg.Output.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Printf("Question: %s\n", answer.Question)
	fmt.Printf("Confidence: %.2f (%s)\n", answer.Confidence, answer.ConfidenceBand)
	fmt.Printf("%s\n\n", answer.Recommendation)
	for _, m := range answer.Matches {
		fmt.Printf("[%s] %s (similarity %.2f, %d chunks)\n", m.DocumentType, m.DocumentName, m.Similarity, m.ChunkCount)
		snippet := m.Snippet
		if len(snippet) > 300 {
			snippet = snippet[:300] + "..."
		}
		fmt.Printf("  %s\n\n", snippet)
	}
	return nil
}

func runIndexSweep(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	registry, err := buildRegistry(cfg, s, docRoot)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	swept := registry.SweepExpired(ctx, time.Now())
	fmt.Printf("Swept %d expired index(es)\n", swept)
	return nil
}
