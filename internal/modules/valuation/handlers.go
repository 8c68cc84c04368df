package valuation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
	"github.com/intrinsiq/valuation-engine/internal/modules/history"
)

const defaultHorizon = 5

// ValuationRequest is the payload for valuation runs: raw statements plus
// the market snapshot and optional analyst growth estimates.
type ValuationRequest struct {
	Statements      history.StatementSet    `json:"statements"`
	Snapshot        domain.MarketSnapshot   `json:"snapshot"`
	GrowthEstimates []domain.GrowthEstimate `json:"growth_estimates,omitempty"`
	Horizon         int                     `json:"horizon,omitempty"`
	WithSensitivity bool                    `json:"with_sensitivity,omitempty"`
}

// MonteCarloRequest extends the valuation payload with trial controls.
type MonteCarloRequest struct {
	ValuationRequest
	Trials int    `json:"trials,omitempty"`
	Seed   uint64 `json:"seed,omitempty"`
}

// Handler handles valuation HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new valuation handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "valuation").Logger(),
	}
}

// Routes mounts the valuation routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.HandleValuate)
	r.Post("/montecarlo", h.HandleMonteCarlo)
}

// HandleValuate handles POST / - run all five models
func (h *Handler) HandleValuate(w http.ResponseWriter, r *http.Request) {
	var req ValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := h.buildInputs(req)
	outcomes := RunAll(in, h.log)

	if req.WithSensitivity {
		for i := range outcomes {
			if !outcomes[i].Success {
				continue
			}
			model, _ := New(outcomes[i].Kind)
			grid, err := Sweep(model, in, outcomes[i].Result.DiscountRate, h.log)
			if err != nil {
				h.log.Warn().Err(err).Str("model", string(outcomes[i].Kind)).Msg("Sensitivity sweep failed")
				continue
			}
			outcomes[i].Result.Sensitivity = grid
		}
	}

	h.writeJSON(w, outcomes)
}

// HandleMonteCarlo handles POST /montecarlo - randomized DCF resampling
func (h *Handler) HandleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := h.buildInputs(req.ValuationRequest)
	summary := Simulate(in, req.Trials, req.Seed, h.log)

	h.writeJSON(w, summary)
}

// buildInputs normalizes the raw statements and blends the assumption
// vector the models will consume.
func (h *Handler) buildInputs(req ValuationRequest) Inputs {
	horizon := req.Horizon
	if horizon <= 0 {
		horizon = defaultHorizon
	}

	records := history.Normalize(req.Statements)
	ratios := history.DeriveRatios(records, req.Statements)
	assumptions := forecast.Build(records, ratios, req.Snapshot, req.GrowthEstimates, horizon, h.log)

	return Inputs{
		Records:     records,
		Snapshot:    req.Snapshot,
		Assumptions: assumptions,
		Horizon:     horizon,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
