package graphql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslatePassesThroughClassifiedErrors(t *testing.T) {
	orig := NewNotFound("post")
	got := Translate(fmt.Errorf("resolver: %w", orig))
	assert.Same(t, orig, got)
}

func TestTranslateStoreSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"record not found", gorm.ErrRecordNotFound, CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, CodeIntegrity},
		{"invalid transaction", gorm.ErrInvalidTransaction, CodeDatabase},
		{"deadline", context.DeadlineExceeded, CodeInternal},
		{"canceled", context.Canceled, CodeInternal},
		{"unclassified", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Translate(tt.err).Code)
		})
	}
}

func TestTranslateKeepsCauseServerSide(t *testing.T) {
	cause := errors.New("pq: connection refused")
	app := Translate(cause)
	require.Equal(t, CodeInternal, app.Code)
	assert.Equal(t, "an unexpected error occurred", app.Message)
	assert.ErrorIs(t, app, cause)
}

func TestClientCaused(t *testing.T) {
	clientCodes := []Code{CodeValidation, CodeAuthRequired, CodePermission, CodeNotFound, CodeDuplicate, CodeRateLimited}
	for _, c := range clientCodes {
		assert.True(t, c.ClientCaused(), string(c))
	}
	serverCodes := []Code{CodeIntegrity, CodeDatabase, CodeInternal}
	for _, c := range serverCodes {
		assert.False(t, c.ClientCaused(), string(c))
	}
}

func TestEntryFromAppErrorShapesRetryAfter(t *testing.T) {
	entry := entryFromAppError(NewRateLimited(42 * time.Second))
	assert.Equal(t, CodeRateLimited, entry.Extensions.Code)
	assert.Equal(t, int64(42), entry.Extensions.RetryAfter)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewDatabaseError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DATABASE_ERROR")
}
