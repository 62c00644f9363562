package comparer

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TimeWithin aceita instantes a até tolerance um do outro, como os
// OccurredAt gerados durante o teste.
func TimeWithin(tolerance time.Duration) cmp.Option {
	return cmpopts.EquateApproxTime(tolerance)
}
