package errors

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Proton-105/juniorsaver-bot/pkg/logger"
)

func TestHandler_AppError(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false)

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	cause := stdErrors.New("redis down")
	msg := h.Handle(ctx, fmt.Errorf("start: %w", NewStateError(cause)))

	assert.Equal(t, "Could not update the conversation. Send /start to begin again.", msg)
	assert.Contains(t, buf.String(), "code=E100")
	assert.Contains(t, buf.String(), "correlation_id=corr-1")
}

func TestHandler_UnknownError(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false)

	msg := h.Handle(context.Background(), stdErrors.New("boom"))

	assert.Equal(t, defaultUserMessage, msg)
	assert.Contains(t, buf.String(), "unknown error")
}

func TestHandler_NilError(t *testing.T) {
	h := NewHandler(nil, false)
	assert.Empty(t, h.Handle(context.Background(), nil))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stdErrors.New("network")
	err := NewTelegramError("send", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, SeverityMedium, err.Severity)
	assert.Contains(t, err.Error(), "telegram send failed")
}
