// Package server exposes the showroom calculators over HTTP and serves the
// embedded showcase page.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/showroom/internal/config"
	"github.com/iwvelando/showroom/pkg/constants"
	"github.com/iwvelando/showroom/pkg/emi"
	"github.com/iwvelando/showroom/pkg/eventprice"
	"github.com/iwvelando/showroom/pkg/format"
	"github.com/iwvelando/showroom/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options tunes the handler returned by NewHandler.
type Options struct {
	MaxBodySize int64
	RateLimit   RateLimitConfig
	Version     string
}

type handler struct {
	logger      *zap.Logger
	conf        *config.Configuration
	validator   *validation.Validator
	events      *eventprice.Calculator
	schedules   *emi.ScheduleGenerator
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web UI and calculator API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, opts Options) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		return nil, errors.New("server requires a configuration")
	}

	schedule, err := conf.EventSchedule()
	if err != nil {
		return nil, err
	}
	events, err := eventprice.NewCalculator(schedule)
	if err != nil {
		return nil, err
	}

	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:      logger,
		conf:        conf,
		validator:   validation.New(),
		events:      events,
		schedules:   emi.NewScheduleGenerator(logger),
		maxBodySize: opts.MaxBodySize,
		version:     version,
	}

	api := http.NewServeMux()
	api.HandleFunc("/api/emi", h.handleEMI)
	api.HandleFunc("/api/event-price", h.handleEventPrice)
	api.HandleFunc("/api/vehicle", h.handleVehicle)
	api.HandleFunc("/api/defaults", h.handleDefaults)
	api.HandleFunc("/api/version", h.handleVersion)

	var apiHandler http.Handler = api
	if opts.RateLimit.RequestsPerSecond > 0 {
		apiHandler = newClientLimiter(logger, opts.RateLimit.RequestsPerSecond, opts.RateLimit.Burst).middleware(api)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux, nil
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down web server", zap.String("op", "server.Run"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

type emiResponse struct {
	emi.Result
	AnnualRatePercent float64           `json:"annualRatePercent"`
	TenureMonths      int               `json:"tenureMonths"`
	Formatted         map[string]string `json:"formatted"`
	Schedule          []emi.Installment `json:"schedule,omitempty"`
}

type eventPriceResponse struct {
	eventprice.Result
	Invites      int               `json:"invites"`
	DurationDays int               `json:"durationDays"`
	Pricing      string            `json:"pricing"`
	Formatted    map[string]string `json:"formatted"`
}

type vehicleResponse struct {
	config.Vehicle
	FormattedListPrice string `json:"formattedListPrice"`
}

type defaultsResponse struct {
	Loan    config.LoanDefaults  `json:"loan"`
	Event   config.EventDefaults `json:"event"`
	Pricing eventprice.Schedule  `json:"pricing"`
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEMI"

	form := h.conf.LoanForm()
	withSchedule := false

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		var err error
		if form.LoanAmount, err = floatParam(query, form.LoanAmount, "loanAmount"); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		if form.DownPayment, err = floatParam(query, form.DownPayment, "downPayment"); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		if form.AnnualRatePercent, err = floatParam(query, form.AnnualRatePercent, "annualRatePercent", "rate"); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		if form.TenureMonths, err = intParam(query, form.TenureMonths, "tenureMonths", "tenure"); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		withSchedule = boolParam(query, "schedule")
	case http.MethodPost:
		if !h.decodeBody(w, r, &form, op) {
			return
		}
		withSchedule = boolParam(r.URL.Query(), "schedule")
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	inputs, err := h.validator.Loan(form)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := emi.Quote(inputs)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	response := emiResponse{
		Result:            result,
		AnnualRatePercent: inputs.AnnualRatePercent,
		TenureMonths:      inputs.TenureMonths,
		Formatted: map[string]string{
			"principal":      format.Rupee(result.Principal),
			"monthlyPayment": format.Rupee(result.MonthlyPayment),
			"totalInterest":  format.Rupee(result.TotalInterest),
			"totalPayment":   format.Rupee(result.TotalPayment),
		},
	}

	if withSchedule {
		response.Schedule, err = h.schedules.Generate(inputs)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	h.logger.Debug("emi computed",
		zap.String("op", op),
		zap.Float64("principal", inputs.Principal),
		zap.Float64("rate", inputs.AnnualRatePercent),
		zap.Int("tenure", inputs.TenureMonths),
		zap.Int64("emi", result.MonthlyPayment),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleEventPrice(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEventPrice"

	form := h.conf.EventForm()

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		var err error
		if form.Invites, err = intParam(query, form.Invites, "invites"); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		if form.DurationDays, err = intParam(query, form.DurationDays, "durationDays", "duration"); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	case http.MethodPost:
		if !h.decodeBody(w, r, &form, op) {
			return
		}
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	inputs, err := h.validator.Event(form)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := h.events.Compute(inputs)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Debug("event price computed",
		zap.String("op", op),
		zap.Int("invites", inputs.Invites),
		zap.Int("days", inputs.DurationDays),
		zap.Int64("price", result.Price),
	)

	h.writeJSON(w, http.StatusOK, eventPriceResponse{
		Result:       result,
		Invites:      inputs.Invites,
		DurationDays: inputs.DurationDays,
		Pricing:      h.events.Schedule().Name,
		Formatted: map[string]string{
			"price": format.Rupee(result.Price),
		},
	})
}

func (h *handler) handleVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, vehicleResponse{
		Vehicle:            h.conf.Vehicle,
		FormattedListPrice: format.Rupee(h.conf.Vehicle.ListPrice),
	})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, defaultsResponse{
		Loan:    h.conf.Loan,
		Event:   h.conf.Event,
		Pricing: h.events.Schedule(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeBody reads a size-limited JSON body into dst, which should already
// hold defaults for omitted fields. It reports false after writing an error.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculator request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(h.logger, w, status, payload)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func floatParam(query url.Values, fallback float64, names ...string) (float64, error) {
	for _, name := range names {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: expected a number", name, raw)
		}
		return value, nil
	}
	return fallback, nil
}

func intParam(query url.Values, fallback int, names ...string) (int, error) {
	for _, name := range names {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: expected a whole number", name, raw)
		}
		return value, nil
	}
	return fallback, nil
}

func boolParam(query url.Values, name string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(query.Get(name)))
	return err == nil && parsed
}
