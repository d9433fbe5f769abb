package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexus-social/backend/internal/graphql"
)

// GraphQLHandler is the single mutation/query endpoint. Every request,
// success or failure, answers 200 with a GraphQL-shaped body; only a
// body that is not JSON at all earns a 400.
type GraphQLHandler struct {
	pipeline *graphql.Pipeline
}

func NewGraphQLHandler(pipeline *graphql.Pipeline) *GraphQLHandler {
	return &GraphQLHandler{pipeline: pipeline}
}

func (h *GraphQLHandler) Handle(c echo.Context) error {
	var req graphql.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, &graphql.Response{
			Errors: []graphql.ErrorEntry{{
				Message:    "request body is not valid JSON",
				Extensions: graphql.Extensions{Code: graphql.CodeValidation},
			}},
		})
	}

	resp := h.pipeline.Execute(
		c.Request().Context(),
		&req,
		c.Request().Header.Get(echo.HeaderAuthorization),
		c.RealIP(),
	)
	return c.JSON(http.StatusOK, resp)
}
