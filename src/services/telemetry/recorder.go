package telemetry

import (
	"context"
	"errors"
	"orghierarchy/src/domain"
	"time"
)

// QueryObservation é o que a fachada reporta a cada consulta, com sucesso
// ou não.
type QueryObservation struct {
	Backend    domain.Backend
	Kind       domain.QueryKind
	SnapshotID string
	Duration   time.Duration
	Rows       int
	Err        error
}

func (o QueryObservation) Outcome() string {
	return Outcome(o.Err)
}

// Recorder recebe observações. Implementações não podem bloquear a consulta
// nem alterar seu resultado.
type Recorder interface {
	Observe(ctx context.Context, observation QueryObservation)
}

type NopRecorder struct{}

func (NopRecorder) Observe(context.Context, QueryObservation) {}

// MultiRecorder repassa cada observação para todos os recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) Observe(ctx context.Context, observation QueryObservation) {
	for _, r := range m {
		r.Observe(ctx, observation)
	}
}

const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeCycle    = "cycle"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidDepth), errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownBackend):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrCycleDetected):
		return OutcomeCycle
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
