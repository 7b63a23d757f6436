package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
)

// ClientID returns the authenticated caller set by AuthMiddleware.
func ClientID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ClientIDCtx)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
