package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/claimlens/internal/model"
)

// RenderJSON writes the assessment as indented JSON.
func RenderJSON(w io.Writer, a *ClaimAssessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// Render writes a human-readable assessment report. Verbose adds the
// per-feature contributions and the full indicator lists.
func Render(w io.Writer, a *ClaimAssessment, verbose bool) {
	fmt.Fprintf(w, "Claim %s (policy %s)\n", a.ClaimID, a.PolicyID)
	fmt.Fprintln(w, strings.Repeat("=", 50))

	fmt.Fprintf(w, "\nDocument sufficiency: ")
	if a.Sufficiency.Ready {
		fmt.Fprintln(w, "READY")
	} else {
		fmt.Fprintln(w, "NOT READY")
	}
	fmt.Fprintf(w, "  %s\n", a.Sufficiency.Reason)
	fmt.Fprintf(w, "  documents: %d  types: %d  size: %.1f MB\n",
		a.Sufficiency.TotalDocuments, len(a.Sufficiency.DistinctTypes), a.Sufficiency.SizeMBTotal)

	fmt.Fprintln(w, "\nRisk scores:")
	renderRisk(w, "history", a.HistoryRisk, verbose)
	renderRisk(w, "timing", a.TimingRisk, verbose)
	renderRisk(w, "network", a.NetworkRisk, verbose)
	if a.FeatureRisk != nil {
		renderRisk(w, "features", *a.FeatureRisk, verbose)
		if verbose {
			for _, c := range a.Contributions {
				fmt.Fprintf(w, "      %-22s %+.4f\n", c.Name, c.Contribution)
			}
		}
	}

	if a.DuplicateCheck != nil && a.DuplicateCheck.HighRisk {
		fmt.Fprintf(w, "\nDuplicate alert: %d prior claim(s) within 7 days in %s\n",
			len(a.DuplicateCheck.Matches), a.DuplicateCheck.City)
	}
	if a.TimingCheck != nil && !a.TimingCheck.Passed {
		fmt.Fprintln(w, "\nIntake timing issues:")
		for _, issue := range a.TimingCheck.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}

	fmt.Fprintf(w, "\nOverall: %.2f [%s]\n", a.Overall.Score, a.Overall.Tier)
	fmt.Fprintf(w, "Recommendation: %s\n", a.Overall.Recommendation)
	if verbose && len(a.Overall.Indicators) > 0 {
		fmt.Fprintln(w, "Indicators:")
		for _, ind := range a.Overall.Indicators {
			fmt.Fprintf(w, "  - %s\n", ind)
		}
	}
}

func renderRisk(w io.Writer, name string, r model.RiskAssessment, verbose bool) {
	fmt.Fprintf(w, "  %-9s %.2f [%s]\n", name, r.Score, r.Tier)
	if verbose {
		for _, ind := range r.Indicators {
			fmt.Fprintf(w, "      - %s\n", ind)
		}
	}
}
