package intake

import (
	"context"
)

// Repository fetches the raw outreach cases from the upstream store. The
// query runs once per generation run; a fetch failure is fatal to the run.
type Repository interface {
	ListOutreachCases(ctx context.Context) ([]RawCase, error)
}
