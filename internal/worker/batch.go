package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimlens/internal/pipeline"
)

// Assessor runs the full assessment for one submission
type Assessor interface {
	Assess(ctx context.Context, req pipeline.AssessmentRequest) (*pipeline.ClaimAssessment, error)
}

// AssessJob is one claim assessment submitted to the pool
type AssessJob struct {
	Request  pipeline.AssessmentRequest
	Assessor Assessor
}

// Execute runs the assessment.
func (j *AssessJob) Execute(ctx context.Context) Result {
	assessment, err := j.Assessor.Assess(ctx, j.Request)
	return &AssessResult{
		ClaimID:    j.Request.ClaimID,
		Assessment: assessment,
		Error:      err,
	}
}

// AssessResult is the outcome of one batch assessment
type AssessResult struct {
	ClaimID    string
	Assessment *pipeline.ClaimAssessment
	Error      error
}

// GetError returns the assessment error, if any.
func (r *AssessResult) GetError() error { return r.Error }

// BatchProcessor assesses many claims concurrently
type BatchProcessor struct {
	assessor    Assessor
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(assessor Assessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		assessor:    assessor,
		concurrency: concurrency,
	}
}

// Process assesses the given submissions concurrently. Results carry
// per-claim errors rather than failing the whole batch.
func (b *BatchProcessor) Process(ctx context.Context, requests []pipeline.AssessmentRequest) []*AssessResult {
	if len(requests) == 0 {
		return []*AssessResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&AssessJob{Request: req, Assessor: b.assessor})
	}

	results := pool.Wait()

	out := make([]*AssessResult, len(results))
	for i, result := range results {
		out[i] = result.(*AssessResult)
	}
	return out
}

// ProcessFile reads submissions from a file and assesses them.
// Each line is claim_id,policy_id,incident_date,reported_date[,city].
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AssessResult, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	return b.Process(ctx, requests), nil
}

// ReadRequestsFromFile parses one submission per line, skipping blank
// lines, comments, and duplicate claim IDs.
func ReadRequestsFromFile(filePath string) ([]pipeline.AssessmentRequest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []pipeline.AssessmentRequest
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected claim_id,policy_id,incident_date,reported_date[,city]", lineNo)
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true

		req := pipeline.AssessmentRequest{
			ClaimID:      fields[0],
			PolicyID:     fields[1],
			IncidentDate: fields[2],
			ReportedDate: fields[3],
		}
		if len(fields) > 4 {
			req.City = fields[4]
		}
		requests = append(requests, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return requests, nil
}
