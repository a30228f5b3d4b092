package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

func TestReasonFor(t *testing.T) {
	assert.Equal(t, ReasonValidation, ReasonFor(domain.ErrOutOfRange))
	assert.Equal(t, ReasonUnauthorized, ReasonFor(domain.ErrNotAssignedToGame))
	assert.Equal(t, ReasonConflict, ReasonFor(fmt.Errorf("wrapped: %w", domain.ErrStaleConfig)))
	assert.Equal(t, ReasonTimeout, ReasonFor(domain.ErrPersistenceTimeout))
	assert.Equal(t, ReasonPersistence, ReasonFor(domain.ErrPersistence))
	assert.Equal(t, ReasonOther, ReasonFor(fmt.Errorf("boom")))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/scores/{participantID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/scores/{participantID}", "418"))

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/scores/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/scores/{participantID}", "418"))
	assert.InDelta(t, 2, after-before, 0)
}
