package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-booking-backend/internal/availability"
	"campus-booking-backend/internal/booking"
)

// respondError maps core error types to HTTP responses. Transient persistence
// errors surface as 500; the caller owns retry policy.
func respondError(c *gin.Context, err error) {
	var (
		validation *booking.ValidationError
		malformed  *availability.MalformedTimeError
		conflict   *booking.ConflictError
		inUse      *booking.ResourceInUseError
		unavail    *booking.UnavailableError
	)

	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &malformed):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": malformed.Error()})
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     conflict.Error(),
			"conflicts": conflict.Conflicts,
		})
	case errors.As(err, &inUse):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": inUse.Error()})
	case errors.As(err, &unavail):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     unavail.Error(),
			"conflicts": unavail.Conflicts,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
