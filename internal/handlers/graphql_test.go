package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-social/backend/internal/graphql"
)

func newTestHandler(t *testing.T) *GraphQLHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline := graphql.NewPipeline(
		graphql.NewGuard(graphql.NewJWTVerifier("handler-test-secret")),
		graphql.NewRateLimiter(time.Minute, 100, logger),
		graphql.NewValidator(),
		time.Second,
		logger,
	)
	pipeline.Register(&graphql.Operation{
		Name: "ping",
		Resolve: func(context.Context, graphql.Principal, any) (any, error) {
			return "pong", nil
		},
	})
	return NewGraphQLHandler(pipeline)
}

func doRequest(t *testing.T, h *GraphQLHandler, body, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h.Handle(e.NewContext(req, rec)))
	return rec
}

func TestHandlerUnauthenticatedIsShapedNot401(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, `{"query":"{ ping }"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp graphql.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graphql.CodeAuthRequired, resp.Errors[0].Extensions.Code)
}

func TestHandlerSuccess(t *testing.T) {
	h := newTestHandler(t)
	token, err := graphql.IssueToken("handler-test-secret", 5, "x@example.com", false, time.Hour)
	require.NoError(t, err)
	rec := doRequest(t, h, `{"query":"{ ping }"}`, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp graphql.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "pong", resp.Data["ping"])
}

func TestHandlerMalformedJSONIs400(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, `{"query": not json`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp graphql.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graphql.CodeValidation, resp.Errors[0].Extensions.Code)
}
