package smartmatch

import (
	"errors"

	"github.com/kailas-cloud/smartmatch/internal/domain"
	domparse "github.com/kailas-cloud/smartmatch/internal/domain/parse"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration   = domain.ErrConfiguration
	ErrValidation      = domain.ErrValidation
	ErrUpstream        = domain.ErrUpstream
	ErrUpstreamTimeout = domain.ErrUpstreamTimeout
	ErrParse           = domain.ErrParse
)

// Stage returns the lifecycle stage a failed parse attempt reached:
// "pending", "prompt_built" or "upstream_called". Empty for errors that
// did not come from a parse attempt.
func Stage(err error) string {
	if s := domparse.FailedStage(err); s != "" {
		return string(s)
	}
	if errors.Is(err, domain.ErrValidation) {
		return string(domparse.StagePending)
	}
	return ""
}
