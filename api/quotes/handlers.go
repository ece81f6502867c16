package quotes

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/fleetquote/core/catalog"
	"github.com/kilianp07/fleetquote/core/metrics/kpi"
	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/quotelog"
)

// SimulateRequest prices Trip against Settings without recording the quote.
// Without Settings the current tariff table is used.
type SimulateRequest struct {
	Trip     model.TripRequest  `json:"trip"`
	Settings *model.SettingsDoc `json:"settings,omitempty"`
}

// VehicleView is a catalog vehicle with its derived price per kilometer.
type VehicleView struct {
	model.Vehicle
	PricePerKm float64 `json:"price_per_km"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// quote handles POST /api/quotes.
func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	var req model.TripRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.svc.Quote(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// simulate handles POST /api/quotes/simulate.
func (h *handler) simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if err := h.decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	var settings model.Settings
	if body.Settings != nil {
		s, err := body.Settings.Build()
		if err != nil {
			h.fail(w, r, err)
			return
		}
		settings = s
	} else {
		s, err := h.settings.Settings(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		settings = s
	}
	q, err := h.svc.Simulate(r.Context(), body.Trip, settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// quoteLog handles GET /api/quotes/log?start=&end=&vehicle_id=&minimum_applied=&limit=.
func (h *handler) quoteLog(w http.ResponseWriter, r *http.Request) {
	if h.log == nil {
		writeError(w, http.StatusNotFound, "not_found", "quote log disabled")
		return
	}
	q, err := parseLogQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records, err := h.log.Query(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if records == nil {
		records = []quotelog.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func parseLogQuery(r *http.Request) (quotelog.Query, error) {
	v := r.URL.Query()
	q := quotelog.Query{VehicleID: v.Get("vehicle_id")}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, fmt.Errorf("%w: start: %v", model.ErrInvalidInput, err)
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, fmt.Errorf("%w: end: %v", model.ErrInvalidInput, err)
		}
	}
	if s := v.Get("minimum_applied"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, fmt.Errorf("%w: minimum_applied: %v", model.ErrInvalidInput, err)
		}
		q.MinimumApplied = &b
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("%w: limit must be a non-negative integer", model.ErrInvalidInput)
		}
		q.Limit = n
	}
	return q, nil
}

// listVehicles handles GET /api/vehicles?category=&company=.
func (h *handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	vs := h.vehicles.List(catalog.Query{
		Category: r.URL.Query().Get("category"),
		Company:  r.URL.Query().Get("company"),
	})
	writeJSON(w, http.StatusOK, views(vs, settings))
}

// suitableVehicles handles GET /api/vehicles/suitable?weight_kg=&volume_m3=
// and returns the vehicles able to carry the package in selection order.
func (h *handler) suitableVehicles(w http.ResponseWriter, r *http.Request) {
	var pkg catalog.Package
	var err error
	if pkg.WeightKg, err = floatParam(r, "weight_kg"); err != nil {
		h.fail(w, r, err)
		return
	}
	if pkg.VolumeM3, err = floatParam(r, "volume_m3"); err != nil {
		h.fail(w, r, err)
		return
	}
	settings, err := h.settings.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ranked := catalog.Rank(h.vehicles.List(catalog.Query{}), pkg, settings.VehiclePricePerKm)
	writeJSON(w, http.StatusOK, views(ranked, settings))
}

// upsertVehicle handles PUT /api/vehicles/{id}.
func (h *handler) upsertVehicle(w http.ResponseWriter, r *http.Request) {
	var v model.Vehicle
	if err := h.decode(r, &v); err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if v.ID != "" && v.ID != id {
		h.fail(w, r, fmt.Errorf("%w: body id %q does not match %q", model.ErrInvalidVehicle, v.ID, id))
		return
	}
	v.ID = id
	if id == catalog.GenericVehicleID {
		h.fail(w, r, fmt.Errorf("%w: %s is reserved", model.ErrInvalidVehicle, id))
		return
	}
	if err := h.vehicles.Upsert(v); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// getSettings handles GET /api/settings.
func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Doc())
}

// putSettings handles PUT /api/settings. The body replaces the whole table.
func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var doc model.SettingsDoc
	if err := h.decode(r, &doc); err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := doc.Build()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.settings.Update(s)
	h.logger.Infow("settings updated", map[string]any{"vehicles": len(s.ProfileIDs())})
	writeJSON(w, http.StatusOK, s.Doc())
}

func floatParam(r *http.Request, name string) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", model.ErrInvalidInput, name)
	}
	return f, nil
}

func views(vs []model.Vehicle, s model.Settings) []VehicleView {
	out := make([]VehicleView, 0, len(vs))
	for _, v := range vs {
		out = append(out, VehicleView{Vehicle: v, PricePerKm: s.VehiclePricePerKm(v)})
	}
	return out
}

// vehicleKPI handles GET /api/kpi/{vehicleID}?start=&end=. Dates are
// YYYY-MM-DD and default to the last 30 days.
func (h *handler) vehicleKPI(w http.ResponseWriter, r *http.Request) {
	if h.kpi == nil {
		writeError(w, http.StatusNotFound, "not_found", "kpi disabled")
		return
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	var err error
	if s := r.URL.Query().Get("start"); s != "" {
		if start, err = time.Parse(time.DateOnly, s); err != nil {
			h.fail(w, r, fmt.Errorf("%w: start: %v", model.ErrInvalidInput, err))
			return
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if end, err = time.Parse(time.DateOnly, s); err != nil {
			h.fail(w, r, fmt.Errorf("%w: end: %v", model.ErrInvalidInput, err))
			return
		}
	}
	if end.Before(start) {
		h.fail(w, r, fmt.Errorf("%w: end before start", model.ErrInvalidInput))
		return
	}
	records, err := h.kpi.Query(chi.URLParam(r, "vehicleID"), start, end)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if records == nil {
		records = []kpi.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
