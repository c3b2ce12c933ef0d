package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type brokenJSON struct{}

func (brokenJSON) MarshalJSON() ([]byte, error) {
	return nil, errors.New("broken")
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewHandler(Deps{Logger: zap.New(core)})

	rr := httptest.NewRecorder()
	h.writeJSON(rr, http.StatusOK, map[string]any{"value": brokenJSON{}})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Body.String())

	entries := logs.FilterMessage("Failed to encode response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func TestWriteJSON(t *testing.T) {
	h := NewHandler(Deps{Logger: zap.NewNop()})

	rr := httptest.NewRecorder()
	h.writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}
