package valuation

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
)

// Model is the strategy interface shared by the five valuation
// methodologies. Implementations differ only in which cash flow they
// discount, at which rate, and which base value they add to the
// discounted stream; the discounting and terminal-value mathematics are
// shared (discount.go).
type Model interface {
	Kind() Kind
	Valuate(in Inputs, log zerolog.Logger) (*Result, error)
}

// New returns the model for a kind.
func New(kind Kind) (Model, bool) {
	switch kind {
	case KindDCF:
		return &DCFModel{}, true
	case KindFCFE:
		return &FCFEModel{}, true
	case KindRIM:
		return &RIMModel{}, true
	case KindEVA:
		return &EVAModel{}, true
	case KindAPV:
		return &APVModel{}, true
	}
	return nil, false
}

// RunAll executes every model against the same inputs. Runs are
// independent (each derives its own Projection), so they execute
// concurrently; a failing model is reported as a structured failure and
// never affects its siblings. Outcomes come back in canonical kind order.
func RunAll(in Inputs, log zerolog.Logger) []Outcome {
	type indexed struct {
		idx     int
		outcome Outcome
	}
	results := make(chan indexed, len(Kinds))

	for i, kind := range Kinds {
		model, _ := New(kind)
		go func(idx int, m Model) {
			results <- indexed{idx: idx, outcome: runOne(m, in, log)}
		}(i, model)
	}

	outcomes := make([]Outcome, len(Kinds))
	for range Kinds {
		res := <-results
		outcomes[res.idx] = res.outcome
	}
	close(results)

	return outcomes
}

// runOne wraps a single model run into an Outcome envelope.
func runOne(m Model, in Inputs, log zerolog.Logger) Outcome {
	result, err := m.Valuate(in, log.With().Str("model", string(m.Kind())).Logger())
	if err != nil {
		outcome := Outcome{
			Kind:  m.Kind(),
			Error: err.Error(),
		}

		var missing *domain.MissingDataError
		if errors.As(err, &missing) {
			outcome.Suggestion = missing.Suggestion()
		}
		var insufficient *domain.InsufficientHistoryError
		if errors.As(err, &insufficient) {
			outcome.Suggestion = "provide at least two historical fiscal periods"
		}

		log.Warn().Err(err).Str("model", string(m.Kind())).Msg("Model run failed")
		return outcome
	}

	return Outcome{
		Kind:    m.Kind(),
		Success: true,
		Result:  result,
	}
}
