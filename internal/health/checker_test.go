package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_Handler(t *testing.T) {
	testCases := []struct {
		name           string
		check          CheckFunc
		expectedStatus int
		expectedResult string
	}{
		{
			name:           "healthy",
			check:          func(context.Context) error { return nil },
			expectedStatus: http.StatusOK,
			expectedResult: statusOK,
		},
		{
			name:           "unhealthy",
			check:          func(context.Context) error { return errors.New("down") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedResult: "down",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewChecker(testLogger(), time.Second)
			checker.AddCheck("component", tc.check)

			rec := httptest.NewRecorder()
			checker.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)

			var body struct {
				Healthy    bool              `json:"healthy"`
				Components map[string]string `json:"components"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.expectedStatus == http.StatusOK, body.Healthy)
			assert.Equal(t, tc.expectedResult, body.Components["component"])
		})
	}
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	checker := NewRedisChecker(client)
	assert.NoError(t, checker.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, checker.HealthCheck(context.Background()))
}

func TestTelegramChecker_NotInitialized(t *testing.T) {
	assert.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))
}
