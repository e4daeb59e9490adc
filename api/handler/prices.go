package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JDY-exe/PurePEG-price-fetch/aggregator"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

// Prices returns a handler for GET /api/v1/prices/:identifier.
//
// The identifier arrives URL-encoded in the path (SMILES strings carry
// slashes and plus signs); gin hands it over decoded. On success the body
// is the full vendor-result array; a resolution or directory failure
// before fan-out produces a single top-level error instead.
func Prices(agg *aggregator.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.Param("identifier")

		results, err := agg.Aggregate(c.Request.Context(), identifier)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, results)
	}
}

// respondError maps a FetchError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error) {
	fetchErr, ok := err.(*models.FetchError)
	if !ok {
		fetchErr = models.NewFetchError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(fetchErr), models.ErrorResponse{
		Error:   fetchErr.Message,
		Details: fetchErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.FetchError) int {
	switch e.Code {
	case models.ErrCodeValidation:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeUpstream:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
