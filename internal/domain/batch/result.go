package batch

import "github.com/kailas-cloud/smartmatch/internal/domain/parse"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of parsing one query of a batch.
type Result struct {
	query  string
	status ItemStatus
	result parse.Result
	err    error
}

// NewOK creates a successful batch result.
func NewOK(r parse.Result) Result {
	return Result{query: r.Query, status: StatusOK, result: r}
}

// NewError creates a failed batch result.
func NewError(query string, err error) Result {
	return Result{query: query, status: StatusError, err: err}
}

// Query returns the input query.
func (r Result) Query() string { return r.query }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Parsed returns the parse result. Zero when Status is StatusError.
func (r Result) Parsed() parse.Result { return r.result }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts the outcomes of a batch.
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
