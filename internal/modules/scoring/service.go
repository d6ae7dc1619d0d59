// README: Scoring service wraps the pure scorer with per-call logging and metrics.
package scoring

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives one sample per scoring call.
type Observer interface {
	ObserveScoring(variant Variant, units int, elapsed time.Duration)
}

// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	observer Observer
	now      func() time.Time
}

func NewService(observer Observer) *Service {
	return &Service{observer: observer, now: time.Now}
}

func (s *Service) Evaluate(ctx context.Context, v Variant, job Job, units []Unit) ([]Result, error) {
	start := s.now()
	results, err := Score(v, job, units)
	if err != nil {
		return nil, err
	}
	elapsed := s.now().Sub(start)

	if s.observer != nil {
		s.observer.ObserveScoring(v, len(units), elapsed)
	}

	logger := zerolog.Ctx(ctx)
	if e := logger.Debug(); e.Enabled() {
		e.Str("variant", string(v)).
			Int("units", len(units)).
			Dur("elapsed", elapsed).
			Msg("units scored")
	}
	return results, nil
}
