package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PaesslerAG/jsonpath"
	"github.com/iwvelando/investment-optimizer/internal/config"
	"github.com/iwvelando/investment-optimizer/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const smallOptions = `name,price,profit
A,100,10
B,200,15
C,300,20
`

func TestHandleSolveActions(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", nil)

	data, err := os.ReadFile(filepath.Join("..", "..", "test", "actions.csv"))
	if err != nil {
		t.Fatalf("failed to read test options: %v", err)
	}

	rr := performUpload(t, handler, string(data), "actions.csv", map[string]string{"budget": "500"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp solveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary == nil {
		t.Fatal("expected a summary in the response")
	}
	if resp.Comparison != nil {
		t.Fatal("did not expect a comparison")
	}
	if resp.Rows != 20 || resp.Skipped != 0 {
		t.Errorf("expected 20 rows and 0 skipped, got %d and %d", resp.Rows, resp.Skipped)
	}
	if !resp.Summary.TotalProfit.Equal(decimal.RequireFromString("99.08")) {
		t.Errorf("expected profit 99.08, got %s", resp.Summary.TotalProfit)
	}
	if !resp.Summary.TotalCost.Equal(decimal.NewFromInt(498)) {
		t.Errorf("expected cost 498, got %s", resp.Summary.TotalCost)
	}
	if resp.Duration == "" {
		t.Error("expected a duration")
	}
}

func TestHandleSolveOverrides(t *testing.T) {
	base := config.Default()
	base.Budget = 50
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", base)

	content := strings.ReplaceAll(smallOptions, ",", ";")
	rr := performUpload(t, handler, content, "small.csv", map[string]string{
		"budget":    "400",
		"solver":    "bruteforce",
		"currency":  "usd",
		"delimiter": ";",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp solveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	summary := resp.Summary
	if summary.Strategy != constants.StrategyBruteForce {
		t.Errorf("expected bruteforce strategy, got %s", summary.Strategy)
	}
	if summary.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", summary.Currency)
	}
	if !summary.TotalProfit.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected profit 70, got %s", summary.TotalProfit)
	}
	if len(summary.Selected) != 2 || summary.Selected[0].Name != "A" || summary.Selected[1].Name != "C" {
		t.Errorf("expected [A C], got %+v", summary.Selected)
	}

	if base.Budget != 50 || base.Solver.Strategy != constants.StrategyKnapsack {
		t.Errorf("request overrides leaked into the base configuration: %+v", base)
	}
}

func TestHandleSolveCompare(t *testing.T) {
	base := config.Default()
	base.Reference = config.ReferenceConfig{Name: "manual", Cost: 300, Profit: 60}
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", base)

	rr := performUpload(t, handler, smallOptions, "small.csv", map[string]string{
		"budget":  "400",
		"compare": "true",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp solveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Comparison == nil {
		t.Fatal("expected a comparison")
	}
	if !resp.Comparison.Agree {
		t.Error("expected the solvers to agree")
	}
	if len(resp.Comparison.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(resp.Comparison.Summaries))
	}
	if len(resp.Comparison.Deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(resp.Comparison.Deltas))
	}
	ref := resp.Comparison.Deltas[1]
	if ref.Baseline != "manual" || !ref.Profit.Equal(decimal.NewFromInt(10)) || !ref.Cost.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected reference delta %+v", ref)
	}
}

func TestHandleSolveResponseShape(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", nil)

	rr := performUpload(t, handler, smallOptions, "small.csv", map[string]string{"budget": "400"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var doc interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	tests := map[string]interface{}{
		"$.summary.strategy":         "knapsack",
		"$.summary.currency":         "EUR",
		"$.summary.totalProfit":      "70",
		"$.summary.unspent":          "0",
		"$.summary.selected[1].name": "C",
		"$.rows":                     float64(3),
	}
	for path, want := range tests {
		got, err := jsonpath.Get(path, doc)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if got != want {
			t.Errorf("%s: expected %v, got %v", path, want, got)
		}
	}

	names, err := jsonpath.Get("$.summary.selected[*].name", doc)
	if err != nil {
		t.Fatalf("failed to select names: %v", err)
	}
	if list, ok := names.([]interface{}); !ok || len(list) != 2 {
		t.Errorf("expected 2 selected names, got %v", names)
	}
}

func TestHandleSolveReportsSkippedRows(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", nil)

	content := smallOptions + "D,0,10\nE,50,abc\n"
	rr := performUpload(t, handler, content, "small.csv", map[string]string{"budget": "400"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp solveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", resp.Skipped)
	}
	if len(resp.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", resp.Warnings)
	}
}

func TestHandleSolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		fields   map[string]string
		maxBytes int64
		status   int
		contains string
	}{
		{
			name:     "invalid budget",
			content:  smallOptions,
			fields:   map[string]string{"budget": "lots"},
			status:   http.StatusBadRequest,
			contains: "invalid budget",
		},
		{
			name:     "negative budget",
			content:  smallOptions,
			fields:   map[string]string{"budget": "-1"},
			status:   http.StatusBadRequest,
			contains: "must not be negative",
		},
		{
			name:     "unknown solver",
			content:  smallOptions,
			fields:   map[string]string{"solver": "greedy"},
			status:   http.StatusBadRequest,
			contains: "greedy",
		},
		{
			name:     "missing column",
			content:  "name,price\nA,100\n",
			status:   http.StatusBadRequest,
			contains: "failed to read options",
		},
		{
			name:     "table too large",
			content:  smallOptions,
			fields:   map[string]string{"budget": "1000000000"},
			status:   http.StatusUnprocessableEntity,
			contains: "table",
		},
		{
			name:     "upload too large",
			content:  strings.Repeat(smallOptions, 100),
			maxBytes: 128,
			status:   http.StatusRequestEntityTooLarge,
			contains: "upload exceeds limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxBytes := tt.maxBytes
			if maxBytes == 0 {
				maxBytes = constants.DefaultMaxUploadSizeBytes
			}
			handler := NewHandler(zap.NewNop(), maxBytes, "", nil)

			rr := performUpload(t, handler, tt.content, "options.csv", tt.fields)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp["error"], tt.contains) {
				t.Errorf("expected error containing %q, got %q", tt.contains, resp["error"])
			}
		})
	}
}

func TestHandleSolveMissingFile(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("budget", "100"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/solve", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "missing options file") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestHandleSolveMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/solve", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{version: " v1.2.3 ", expected: "v1.2.3"},
		{version: "", expected: "dev"},
	}

	for _, tt := range tests {
		handler := NewHandler(zap.NewNop(), 0, tt.version, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["version"] != tt.expected {
			t.Errorf("expected version %q, got %q", tt.expected, resp["version"])
		}
	}

	handler := NewHandler(zap.NewNop(), 0, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func performUpload(t *testing.T, handler http.Handler, content, filename string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/solve", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestHandleSolveCapsBruteForce(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,price,profit\n")
	for i := 1; i <= constants.MaxRequestEnumeratorOptions+1; i++ {
		fmt.Fprintf(&sb, "Option-%d,%d,%d\n", i, 10*i, i%7+1)
	}
	options := sb.String()

	base := config.Default()
	base.Solver.MaxEnumeratorOptions = constants.MaxEnumeratorOptions
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "", base)

	rr := performUpload(t, handler, options, "many.csv", map[string]string{"compare": "true"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp solveResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Comparison == nil || len(resp.Comparison.Summaries) != 1 {
		t.Fatalf("expected only the knapsack summary, got %+v", resp.Comparison)
	}
	expected := fmt.Sprintf("exceed the limit of %d", constants.MaxRequestEnumeratorOptions)
	if len(resp.Comparison.Notes) != 1 || !strings.Contains(resp.Comparison.Notes[0], expected) {
		t.Errorf("expected a note containing %q, got %v", expected, resp.Comparison.Notes)
	}

	rr = performUpload(t, handler, options, "many.csv", map[string]string{"solver": "bruteforce"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for brute force above the cap, got %d: %s", rr.Code, rr.Body.String())
	}
}
