// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"valora/internal/modules/scoring"
	"valora/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string               `json:"error"`
	Fields []scoring.FieldError `json:"fields"`
	Detail string               `json:"detail,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeValidationError(c *gin.Context, fields []scoring.FieldError, detail string) {
	if fields == nil {
		fields = []scoring.FieldError{}
	}
	writeJSON(c, http.StatusUnprocessableEntity, validationResponse{
		Error:  "validation failed",
		Fields: fields,
		Detail: detail,
	})
}

// writeBindError maps request decoding and validation failures.
func writeBindError(c *gin.Context, err error) {
	var (
		tooLarge *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooLarge):
		writeError(c, http.StatusRequestEntityTooLarge, "request body too large")
	case scoring.FieldErrors(err) != nil:
		writeValidationError(c, scoring.FieldErrors(err), "")
	case errors.As(err, &typeErr):
		writeValidationError(c, []scoring.FieldError{{Field: typeErr.Field, Rule: "type"}}, "")
	case errors.Is(err, types.ErrInvalidTimestamp):
		writeValidationError(c, nil, err.Error())
	default:
		writeError(c, http.StatusBadRequest, "invalid json")
	}
}

func writeScoringError(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("scoring failed")
	writeError(c, http.StatusInternalServerError, "internal error")
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	writeError(c, http.StatusNotFound, "not found")
}
