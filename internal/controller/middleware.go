package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/counselbook/internal/model"
)

const actorKey = "actor"

// ActorMiddleware reads the authenticated actor descriptor the identity
// collaborator attaches upstream (X-Actor-ID, X-Actor-Role). The engine
// trusts the descriptor and performs no credential validation itself.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader("X-Actor-ID"), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing actor descriptor"})
			return
		}

		role := model.Role(c.GetHeader("X-Actor-Role"))
		switch role {
		case model.RoleStudent, model.RoleCounsellor, model.RoleAdmin:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown actor role"})
			return
		}

		c.Set(actorKey, model.Actor{ID: id, Role: role})
		c.Next()
	}
}

func actorFrom(c *gin.Context) model.Actor {
	return c.MustGet(actorKey).(model.Actor)
}
