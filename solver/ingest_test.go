package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/annealworks/qknap/knapsack"
	"github.com/annealworks/qknap/sampler/exact"
	"github.com/stretchr/testify/require"
)

func newTestIngestor() *Ingestor {
	s := &Solver{Sampler: exact.New()}
	return NewIngestor(NewInstrumentedSolver(s).Solve)
}

func TestIngestorSolve(t *testing.T) {
	body, err := json.Marshal(demoProblem())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newTestIngestor().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var sel knapsack.Selection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	require.Equal(t, []int{0, 2}, sel.Items)
	require.Equal(t, -4.0, sel.Energy)
}

func TestIngestorRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newTestIngestor().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestorRejectsInvalidProblem(t *testing.T) {
	body := `{"costs":[1,2],"weights":[3],"capacity":5}`
	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestIngestor().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestorAppliesSolveTimeout(t *testing.T) {
	var hadDeadline bool
	ing := NewIngestor(func(ctx context.Context, p knapsack.Problem) (knapsack.Selection, error) {
		_, hadDeadline = ctx.Deadline()
		return knapsack.Selection{}, nil
	}).WithTimeout(time.Minute)

	body, err := json.Marshal(demoProblem())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	ing.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, hadDeadline, "solve context carries the configured deadline")
}

func TestIngestorSolveTimeoutExpires(t *testing.T) {
	ing := NewIngestor(func(ctx context.Context, p knapsack.Problem) (knapsack.Selection, error) {
		<-ctx.Done()
		return knapsack.Selection{}, ctx.Err()
	}).WithTimeout(5 * time.Millisecond)

	body, err := json.Marshal(demoProblem())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	ing.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader(body)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), context.DeadlineExceeded.Error())
}

func TestIngestorRejectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/solve", nil)
	rec := httptest.NewRecorder()
	newTestIngestor().ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
