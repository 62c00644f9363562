package query

import (
	"context"
	"fmt"
	"orghierarchy/src/domain"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

// Compare runs the same request on two backends concurrently and diffs the
// normalised rows. Durations are kept per side and never take part in the
// diff.
func (s *QueryService) Compare(ctx context.Context, request domain.QueryRequest, left, right domain.Backend) (*domain.Comparison, error) {
	var leftResult, rightResult *domain.QueryResult

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := s.Query(gctx, request, left)
		if err != nil {
			return fmt.Errorf("left (%s): %w", left, err)
		}
		leftResult = result
		return nil
	})

	g.Go(func() error {
		result, err := s.Query(gctx, request, right)
		if err != nil {
			return fmt.Errorf("right (%s): %w", right, err)
		}
		rightResult = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("QueryService.Compare - %w", err)
	}

	diff := cmp.Diff(leftResult.Rows, rightResult.Rows)

	return &domain.Comparison{
		Request: request,
		Left:    leftResult,
		Right:   rightResult,
		Equal:   diff == "",
		Diff:    diff,
	}, nil
}
