package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimlens/internal/model"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the claims database with demo records",
	Long: `Seed populates the configured database with a demo policy, claim
history, and document records, and writes the matching document files
under the --docs directory. Intended for trying the tool end to end:

  claimlens seed --docs ./documents
  claimlens readiness CLM-2025-001
  claimlens index query CLM-2025-001 "what caused the damage" --docs ./documents`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&docRoot, "docs", ".", "directory to write demo document files")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	day := func(v string) time.Time {
		t, _ := time.Parse("2006-01-02", v)
		return t
	}

	policy := model.Policy{
		PolicyID:       "POL-2025-778",
		Status:         "active",
		Type:           "auto",
		EffectiveDate:  day("2024-04-01"),
		ExpirationDate: day("2026-04-01"),
		State:          "CT",
	}
	if err := s.AddPolicy(ctx, policy); err != nil {
		return err
	}

	history := []model.HistoricalClaim{
		{ClaimID: "CLM-2024-310", PolicyID: policy.PolicyID, ClaimType: "collision", IncidentDate: day("2024-08-12"), ReportedDate: day("2024-08-14"), City: "Hartford", EstimatedDamage: 4200, Status: "approved"},
		{ClaimID: "CLM-2024-544", PolicyID: policy.PolicyID, ClaimType: "glass", IncidentDate: day("2024-11-02"), ReportedDate: day("2024-11-02"), City: "Hartford", EstimatedDamage: 650, Status: "approved"},
	}
	for _, c := range history {
		if err := s.AddClaim(ctx, c, "555-0142"); err != nil {
			return err
		}
	}

	docs := []struct {
		record model.ClaimDocumentRecord
		body   string
	}{
		{
			record: model.ClaimDocumentRecord{DocumentID: "DOC-001", ClaimID: "CLM-2025-001", Type: model.DocPoliceReport, Name: "police_report.txt", SizeMB: 0.6, Status: model.StatusAvailable},
			body: "HARTFORD POLICE DEPARTMENT INCIDENT REPORT\n\n" +
				strings.Repeat("Officer observed rear-end damage to the insured vehicle at the Main St intersection. The other driver admitted following too closely. Road conditions were wet. ", 12),
		},
		{
			record: model.ClaimDocumentRecord{DocumentID: "DOC-002", ClaimID: "CLM-2025-001", Type: model.DocEstimate, Name: "repair_estimate.txt", SizeMB: 0.4, Status: model.StatusAvailable},
			body: "AUTOBODY REPAIR ESTIMATE\n\n" +
				strings.Repeat("Rear bumper replacement, trunk lid realignment, and paint blending. Parts and labor itemized below. Total estimate 4,850 dollars. ", 12),
		},
		{
			record: model.ClaimDocumentRecord{DocumentID: "DOC-003", ClaimID: "CLM-2025-001", Type: model.DocPhotos, Name: "photo_notes.txt", SizeMB: 0.3, Status: model.StatusAvailable},
			body: "PHOTO ANNOTATIONS\n\n" +
				strings.Repeat("Photo set shows crumpled rear bumper, cracked tail light, and paint transfer consistent with a rear-end collision. ", 12),
		},
	}

	if err := os.MkdirAll(docRoot, 0755); err != nil {
		return fmt.Errorf("create docs directory: %w", err)
	}
	for _, d := range docs {
		path := filepath.Join(docRoot, d.record.Name)
		if err := os.WriteFile(path, []byte(d.body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		d.record.URI = "file://" + d.record.Name
		if err := s.AddDocument(ctx, d.record); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded policy %s, %d prior claims, and %d documents for CLM-2025-001\n",
		policy.PolicyID, len(history), len(docs))
	fmt.Printf("Document files written under %s\n", docRoot)
	return nil
}
