package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
)

// pathID parses a numeric path parameter; a malformed id is a validation
// failure, not a 404.
func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.Validation, "Identifiant invalide: %s", raw)
	}
	return uint(id), nil
}
