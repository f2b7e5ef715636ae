package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimlens/internal/fraud"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/pipeline"
	"github.com/ppiankov/claimlens/internal/worker"
)

var (
	policyID      string
	incidentDate  string
	reportedDate  string
	city          string
	claimantPhone string

	estimatedDamage   float64
	claimantAge       float64
	reportingDelay    float64
	descriptionLength float64
	weekendIncident   bool
	highDamage        bool
	claimTypeCode     float64

	batchConcurrency int
)

// assessCmd represents the assess command group
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score fraud risk for claim submissions",
	Long: `Assess runs the fraud risk scorers. The claim subcommand runs the
complete assessment; the others run a single scorer for targeted
investigation.

Scores are advisory heuristics for routing claims to review queues.`,
}

var assessClaimCmd = &cobra.Command{
	Use:   "claim <claim-id>",
	Short: "Run the complete assessment for one claim",
	Long: `Runs document sufficiency, all fraud scorers, duplicate detection,
and policy-timing validation, then combines them into one verdict.

Example:
  claimlens assess claim CLM-2025-001 --policy POL-123 \
    --incident 2025-02-18 --reported 2025-02-20 --city Hartford`,
	Args: cobra.ExactArgs(1),
	RunE: runAssessClaim,
}

var assessHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Score claim-history risk for a policy",
	Args:  cobra.NoArgs,
	RunE:  runAssessHistory,
}

var assessTimingCmd = &cobra.Command{
	Use:   "timing",
	Short: "Score submission-timing risk from the claim dates",
	Args:  cobra.NoArgs,
	RunE:  runAssessTiming,
}

var assessNetworkCmd = &cobra.Command{
	Use:   "network",
	Short: "Score network-connection risk for a policy",
	Args:  cobra.NoArgs,
	RunE:  runAssessNetwork,
}

var assessFeaturesCmd = &cobra.Command{
	Use:   "features",
	Short: "Score risk from claim attributes",
	Long: `Scores a fixed feature vector with the weighted logistic model and
reports the top contributing features.

Example:
  claimlens assess features --damage 25000 --age 40 --delay 5`,
	Args: cobra.NoArgs,
	RunE: runAssessFeatures,
}

var assessBatchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Assess many claims from a file",
	Long: `Assesses one claim per line, concurrently. Each line is
claim_id,policy_id,incident_date,reported_date[,city]; blank lines
and #-comments are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssessBatch,
}

func init() {
	rootCmd.AddCommand(assessCmd)
	assessCmd.AddCommand(assessClaimCmd)
	assessCmd.AddCommand(assessHistoryCmd)
	assessCmd.AddCommand(assessTimingCmd)
	assessCmd.AddCommand(assessNetworkCmd)
	assessCmd.AddCommand(assessFeaturesCmd)
	assessCmd.AddCommand(assessBatchCmd)

	assessCmd.PersistentFlags().StringVar(&policyID, "policy", "", "policy ID")
	assessCmd.PersistentFlags().StringVar(&incidentDate, "incident", "", "incident date (YYYY-MM-DD)")
	assessCmd.PersistentFlags().StringVar(&reportedDate, "reported", "", "reported date (YYYY-MM-DD)")
	assessCmd.PersistentFlags().StringVar(&city, "city", "", "incident city")
	assessCmd.PersistentFlags().StringVar(&claimantPhone, "phone", "", "claimant phone")

	assessFeaturesCmd.Flags().Float64Var(&estimatedDamage, "damage", 0, "estimated damage in dollars")
	assessFeaturesCmd.Flags().Float64Var(&claimantAge, "age", 0, "claimant age in years")
	assessFeaturesCmd.Flags().Float64Var(&reportingDelay, "delay", 0, "reporting delay in days")
	assessFeaturesCmd.Flags().Float64Var(&descriptionLength, "description-length", 0, "claim description length in characters")
	assessFeaturesCmd.Flags().BoolVar(&weekendIncident, "weekend", false, "incident occurred on a weekend")
	assessFeaturesCmd.Flags().BoolVar(&highDamage, "high-damage", false, "damage exceeds the high-damage threshold")
	assessFeaturesCmd.Flags().Float64Var(&claimTypeCode, "claim-type-code", 0, "numeric claim type code")

	assessBatchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "concurrent assessments")
}

func assessContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func emit(v any, render func()) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	render()
	return nil
}

func printRisk(r model.RiskAssessment) {
	fmt.Printf("Score: %.2f [%s]\n", r.Score, r.Tier)
	fmt.Printf("Recommendation: %s\n", r.Recommendation)
	if len(r.Indicators) > 0 {
		fmt.Println("Indicators:")
		for _, ind := range r.Indicators {
			fmt.Printf("  - %s\n", ind)
		}
	}
}

func runAssessClaim(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := assessContext()
	defer cancel()

	out, err := pipeline.New(s).Assess(ctx, pipeline.AssessmentRequest{
		ClaimID:       args[0],
		PolicyID:      policyID,
		IncidentDate:  incidentDate,
		ReportedDate:  reportedDate,
		City:          city,
		ClaimantPhone: claimantPhone,
	})
	if err != nil {
		return fmt.Errorf("assess claim: %w", err)
	}

	if cfg.Output.JSON {
		return pipeline.RenderJSON(os.Stdout, out)
	}
	pipeline.Render(os.Stdout, out, verbose)
	return nil
}

func runAssessHistory(cmd *cobra.Command, args []string) error {
	if policyID == "" {
		return fmt.Errorf("--policy is required")
	}
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := assessContext()
	defer cancel()

	risk, stats, err := fraud.NewHistoryScorer(s).Score(ctx, policyID, time.Now())
	if err != nil {
		return fmt.Errorf("history score: %w", err)
	}

	return emit(struct {
		Risk  model.RiskAssessment `json:"risk"`
		Stats *fraud.HistoryStats  `json:"stats"`
	}{risk, stats}, func() {
		fmt.Printf("History risk for policy %s\n", policyID)
		printRisk(risk)
		fmt.Printf("Claims: %d total, %d in 30d, %d in 90d\n",
			stats.TotalClaims, stats.Claims30d, stats.Claims90d)
	})
}

func runAssessTiming(cmd *cobra.Command, args []string) error {
	risk, err := fraud.NewTimingScorer().Score(fraud.TimingInput{
		IncidentDate:    incidentDate,
		ReportedDate:    reportedDate,
		PolicyEffective: policyEffectiveDate(),
	})
	if err != nil {
		return fmt.Errorf("timing score: %w", err)
	}

	return emit(risk, func() {
		fmt.Printf("Timing risk (incident %s, reported %s)\n", incidentDate, reportedDate)
		printRisk(risk)
	})
}

// policyEffectiveDate resolves the policy's effective date when a
// policy ID was given, so the policy-age checks can run.
func policyEffectiveDate() string {
	if policyID == "" {
		return ""
	}
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return ""
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := assessContext()
	defer cancel()

	policy, err := s.GetPolicy(ctx, policyID)
	if err != nil {
		return ""
	}
	return policy.EffectiveDate.Format(fraud.DateFormat)
}

func runAssessNetwork(cmd *cobra.Command, args []string) error {
	if policyID == "" {
		return fmt.Errorf("--policy is required")
	}
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := assessContext()
	defer cancel()

	risk, err := fraud.NewNetworkScorer(s).Score(ctx, policyID, claimantPhone)
	if err != nil {
		return fmt.Errorf("network score: %w", err)
	}

	return emit(risk, func() {
		fmt.Printf("Network risk for policy %s\n", policyID)
		printRisk(risk)
	})
}

func runAssessFeatures(cmd *cobra.Command, args []string) error {
	risk, contributions := fraud.NewLinearScorer().Score(model.ClaimRiskFeatures{
		EstimatedDamage:    estimatedDamage,
		ClaimantAge:        claimantAge,
		ReportingDelayDays: reportingDelay,
		DescriptionLength:  descriptionLength,
		WeekendIncident:    weekendIncident,
		HighDamage:         highDamage,
		ClaimTypeCode:      claimTypeCode,
	})

	return emit(struct {
		Risk          model.RiskAssessment        `json:"risk"`
		Contributions []model.FeatureContribution `json:"contributions"`
	}{risk, contributions}, func() {
		fmt.Println("Feature-based risk")
		printRisk(risk)
		fmt.Println("Top contributors:")
		for _, c := range contributions {
			fmt.Printf("  %-22s %+.4f\n", c.Name, c.Contribution)
		}
	})
}

func runAssessBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	processor := worker.NewBatchProcessor(pipeline.New(s), batchConcurrency)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("batch assess: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%-16s ERROR %v\n", r.ClaimID, r.Error)
			continue
		}
		fmt.Printf("%-16s %.2f [%s] %s\n",
			r.ClaimID, r.Assessment.Overall.Score, r.Assessment.Overall.Tier,
			r.Assessment.Overall.Recommendation)
	}
	fmt.Printf("\n%d assessed, %d failed\n", len(results)-failed, failed)
	return nil
}
