package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
)

// RequireIDParam parses the named path parameter as a positive id and stores
// it in the context under the same name. label is used in the error message,
// as in "Invalid task ID".
func RequireIDParam(name, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+label+" ID")
			return
		}

		c.Set(name, id)
		c.Next()
	}
}

// IDParam returns an id stored by RequireIDParam.
func IDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(name)
}
