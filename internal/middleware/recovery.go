package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
)

// Recovery turns panics into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		apierrors.InternalError(c, fmt.Errorf("panic: %v", recovered))
	})
}
