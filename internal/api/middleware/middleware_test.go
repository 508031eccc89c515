package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
	"github.com/m04kA/SMC-ConsultorioService/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var gotID int64
	var gotRole domain.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantRole   domain.Role
	}{
		{"client by default", "10", "", http.StatusNoContent, domain.RoleClient},
		{"admin", "1", "Admin", http.StatusNoContent, domain.RoleAdmin},
		{"missing user", "", "admin", http.StatusUnauthorized, ""},
		{"bad user", "abc", "", http.StatusUnauthorized, ""},
		{"unknown role", "10", "root", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotRole = 0, ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderUserID, tt.userID)
			req.Header.Set(HeaderUserRole, tt.role)
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRole, gotRole)
			if tt.wantStatus == http.StatusNoContent {
				assert.NotZero(t, gotID)
			}
		})
	}
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/reservations/{reservationId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/reservations/1", "/reservations/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/reservations/{reservationId}", "404")))
}
