// Package server exposes the optimizer over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/investment-optimizer/internal/config"
	"github.com/iwvelando/investment-optimizer/internal/knapsack"
	"github.com/iwvelando/investment-optimizer/internal/loader"
	"github.com/iwvelando/investment-optimizer/internal/optimizer"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/iwvelando/investment-optimizer/pkg/optimization"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	base          config.Configuration
}

// NewHandler constructs the HTTP handler serving the solve API. Requests
// start from base and may override the budget, solver, currency and
// delimiter through form fields.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, base *config.Configuration) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if base == nil {
		base = config.Default()
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, base: *base}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/version", h.handleVersion)
	return mux
}

type solveResponse struct {
	Summary    *optimization.Summary    `json:"summary,omitempty"`
	Comparison *optimization.Comparison `json:"comparison,omitempty"`
	Rows       int                      `json:"rows"`
	Skipped    int                      `json:"skipped"`
	Warnings   []string                 `json:"warnings,omitempty"`
	Duration   string                   `json:"duration"`
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	conf, err := h.requestConfig(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing options file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleSolve"),
				zap.Error(closeErr),
			)
		}
	}()

	loaded, err := loader.Load(file, loader.Dialect{Delimiter: conf.DelimiterRune()})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read options: %v", err))
		return
	}

	runner, err := optimizer.NewRunner(h.logger, conf)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize optimizer: %v", err))
		return
	}

	response := solveResponse{
		Rows:     loaded.Rows,
		Skipped:  loaded.Skipped,
		Warnings: conf.ValidateConfiguration(),
	}
	for _, warning := range loaded.WarningList() {
		response.Warnings = append(response.Warnings, warning.Error())
	}

	if parseBool(r.FormValue("compare")) {
		response.Comparison, err = runner.Compare(loaded.Options)
	} else {
		response.Summary, err = runner.Run(loaded.Options)
	}
	if err != nil {
		h.respondError(w, statusFor(err), err.Error())
		return
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("solve request completed",
		zap.String("op", "server.handleSolve"),
		zap.String("strategy", conf.Solver.Strategy),
		zap.Int("options", len(loaded.Options)),
		zap.Int("skipped", loaded.Skipped),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// requestConfig applies the form overrides to a copy of the base configuration.
func (h *handler) requestConfig(r *http.Request) (*config.Configuration, error) {
	conf := h.base

	if value := strings.TrimSpace(r.FormValue("budget")); value != "" {
		budget, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid budget %q", value)
		}
		conf.Budget = budget
	}
	if value := strings.TrimSpace(r.FormValue("solver")); value != "" {
		conf.Solver.Strategy = value
	}
	if value := strings.TrimSpace(r.FormValue("currency")); value != "" {
		conf.Currency = value
	}
	if value := r.FormValue("delimiter"); value != "" {
		conf.Input.Delimiter = value
	}

	conf.Normalize()
	// Brute force within a request is capped below the config ceiling.
	if conf.Solver.MaxEnumeratorOptions > constants.MaxRequestEnumeratorOptions {
		conf.Solver.MaxEnumeratorOptions = constants.MaxRequestEnumeratorOptions
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, knapsack.ErrBudgetOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, knapsack.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
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

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("solve request failed",
		zap.String("op", "server.handleSolve"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
