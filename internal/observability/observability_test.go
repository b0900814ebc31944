package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "json", level: "info", format: "json"},
		{name: "console", level: "debug", format: "console"},
		{name: "defaults", level: "", format: ""},
		{name: "invalid level", level: "loud", format: "json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			_ = logger.Sync()
		})
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordVerification("hs256", "success")
	m.RecordVerification("hs256", "success")
	m.RecordVerification("rs256", "failure")
	m.RecordJWKSFetch("ok")
	m.RecordRoleCheck("teacher", "denied")
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.RecordRequest(http.MethodGet, "/posts", http.StatusOK)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.verifications.WithLabelValues("hs256", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.verifications.WithLabelValues("rs256", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jwksFetches.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.roleChecks.WithLabelValues("teacher", "denied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.wsConnections))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/posts", "200")))

	t.Run("handler exposes collectors", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body, err := io.ReadAll(w.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "learnhub_auth_verifications_total")
		assert.Contains(t, string(body), "learnhub_ws_connections 1")
	})
}
