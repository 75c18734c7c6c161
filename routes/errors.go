package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/media"
	"decor-marketplace-server/services"
)

// respondError maps service errors onto status codes. Unknown errors are logged
// and reported without their text.
func respondError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		transition *services.InvalidTransitionError
		assignment *services.InvalidAssignmentError
		lookup     *services.PaymentLookupError
		permission *services.PermissionError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error(), "field": validation.Field})
	case errors.Is(err, media.ErrImageMissing), errors.Is(err, media.ErrImageTooLarge), errors.Is(err, media.ErrImageType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image", "message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "message": err.Error()})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User inactive", "message": err.Error()})
	case errors.As(err, &permission):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition", "message": err.Error()})
	case errors.As(err, &assignment):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid assignment", "message": err.Error()})
	case errors.As(err, &lookup):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment not confirmed", "message": err.Error()})
	case errors.Is(err, services.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists", "message": err.Error()})
	default:
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "message": "Something went wrong, please try again"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"message": err.Error(),
	})
}

// idParam parses a numeric path parameter, answering 400 when it is not one
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid ID",
			"message": name + " must be a positive number",
		})
		return 0, false
	}
	return uint(id), true
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
