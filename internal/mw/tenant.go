package mw

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-booking-backend/internal/model"
)

// APITokenHeader carries the caller's tenant credential.
const APITokenHeader = "X-API-Token"

const schoolContextKey = "school"

// TenantResolver maps an API token to its owning school.
type TenantResolver interface {
	SchoolByToken(ctx context.Context, token string) (*model.School, error)
}

// TenantAuth resolves the caller's token to a school and stores it on the
// request context. Requests without a token are rejected with 401; tokens
// owning no school with 403.
func TenantAuth(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(APITokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		school, err := resolver.SchoolByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no school for credentials"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve tenant"})
			}
			return
		}

		c.Set(schoolContextKey, school)
		c.Next()
	}
}

// CurrentSchool returns the school resolved by TenantAuth.
func CurrentSchool(c *gin.Context) *model.School {
	v, ok := c.Get(schoolContextKey)
	if !ok {
		return nil
	}
	school, _ := v.(*model.School)
	return school
}
