// internal/router/mounter.go
package router

import (
	"github.com/ganette57/pumpmarket.fun-sub001/internal/deps"
	"github.com/gin-gonic/gin"
)

// APIPrefix is where every module is mounted.
const APIPrefix = "/api/v1"

// MountFunc represents a function that mounts routes for a module
type MountFunc func(*gin.RouterGroup, *deps.Container)

type Mounter struct {
	container *deps.Container
}

func NewMounter(container *deps.Container) *Mounter {
	return &Mounter{container: container}
}

// Public routes. Trades identify the wallet by header, so there is no
// authenticated group.
func (m *Mounter) Public(engine *gin.Engine, middleware ...gin.HandlerFunc) *RouteGroup {
	group := engine.Group(APIPrefix, middleware...)
	return &RouteGroup{group: group, container: m.container}
}

type RouteGroup struct {
	group     *gin.RouterGroup
	container *deps.Container
}

// Mount provides a fluent interface for mounting modules. Modules mount in
// call order, so a module can depend on services registered before it.
func (rg *RouteGroup) Mount(mountFuncs ...MountFunc) *RouteGroup {
	for _, mount := range mountFuncs {
		mount(rg.group, rg.container)
	}
	return rg
}

// Group creates a sub-group for organizing routes
func (rg *RouteGroup) Group(path string, middleware ...gin.HandlerFunc) *RouteGroup {
	subGroup := rg.group.Group(path, middleware...)
	return &RouteGroup{group: subGroup, container: rg.container}
}

// RouterGroup exposes the underlying gin group for one-off routes.
func (rg *RouteGroup) RouterGroup() *gin.RouterGroup {
	return rg.group
}
