package walk

import (
	"context"
	"fmt"
	"reflect"

	"golang.org/x/sync/errgroup"

	"ndef-formatter/ndef"
)

// Job is one independent document to decode as a value of type Formal.
type Job struct {
	Formal reflect.Type
	Doc    Document
}

// DecodeAll decodes independent documents concurrently, one goroutine per document and
// at most limit at a time (no limit when limit <= 0). Results are in job order. The
// first failure cancels the jobs not started yet.
func DecodeAll(ctx context.Context, binder ndef.Binder, jobs []Job, limit int) ([]any, error) {
	results := make([]any, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			x, err := Decode(binder, job.Formal, job.Doc)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}

			results[i] = x
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
