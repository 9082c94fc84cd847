package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/claimscope/claimscope/internal/model"
)

// QueryRunner defines the interface for running a single retrieval
type QueryRunner interface {
	Retrieve(ctx context.Context, query string) (*model.RetrievalResult, error)
}

// QueryJob represents one query retrieval job
type QueryJob struct {
	Query  string
	Runner QueryRunner
}

// Execute runs the retrieval for this job's query
func (j *QueryJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.Retrieve(ctx, j.Query)
	return &QueryResult{
		Query:  j.Query,
		Result: result,
		Error:  err,
	}
}

// QueryResult represents the outcome of one query job
type QueryResult struct {
	Query  string
	Result *model.RetrievalResult
	Error  error
}

// GetError returns the error from the query result
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many retrievals concurrently. Each retrieval is
// still synchronous internally; concurrency lives entirely here.
type BatchProcessor struct {
	runner      QueryRunner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner QueryRunner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessQueries runs all queries through the worker pool
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, query := range queries {
		pool.Submit(&QueryJob{
			Query:  query,
			Runner: b.runner,
		})
	}

	results := pool.Wait()

	queryResults := make([]*QueryResult, len(results))
	for i, result := range results {
		queryResults[i] = result.(*QueryResult)
	}
	return queryResults
}

// ProcessFile reads queries from a file and runs them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file (one per line),
// skipping blanks, comments, and duplicates
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return queries, nil
}
