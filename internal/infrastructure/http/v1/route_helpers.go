// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// CRUDRouteHandler is implemented by every resource handler.
type CRUDRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCRUDRoutes registers list/get on read and create/update/delete on
// write under path. The groups carry the access rules.
//
// Usage:
//
//	RegisterCRUDRoutes(authenticated, admin, "/clients", clientHandler)
func RegisterCRUDRoutes(read, write *gin.RouterGroup, path string, handler CRUDRouteHandler) {
	read.GET(path, handler.List)
	read.GET(path+"/:id", handler.Get)
	write.POST(path, handler.Create)
	write.PUT(path+"/:id", handler.Update)
	write.DELETE(path+"/:id", handler.Delete)
}
