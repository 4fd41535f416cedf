// Package router assembles the HTTP route tree from guarded route groups.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIBase prefixes every API route.
const APIBase = "/api/v1"

// Group is a path prefix with its own guard chain. Groups are collected
// first and mounted together, so two groups may share a prefix with
// different chains (public and authenticated /auth routes).
type Group struct {
	prefix string
	guards []gin.HandlerFunc
	routes []route
	nested []*Group
}

type route struct {
	method, path string
	handlers     []gin.HandlerFunc
}

// NewGroup returns an empty group under prefix.
func NewGroup(prefix string) *Group {
	return &Group{prefix: prefix}
}

// Use appends guards. Nil guards are skipped so optional middleware can be
// passed unconditionally.
func (g *Group) Use(guards ...gin.HandlerFunc) *Group {
	for _, h := range guards {
		if h != nil {
			g.guards = append(g.guards, h)
		}
	}
	return g
}

// Nested returns a child group running behind g's guards.
func (g *Group) Nested(prefix string) *Group {
	child := NewGroup(prefix)
	g.nested = append(g.nested, child)
	return child
}

func (g *Group) add(method, path string, handlers []gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method, path, handlers})
	return g
}

func (g *Group) GET(path string, h ...gin.HandlerFunc) *Group { return g.add(http.MethodGet, path, h) }

func (g *Group) POST(path string, h ...gin.HandlerFunc) *Group {
	return g.add(http.MethodPost, path, h)
}

func (g *Group) PUT(path string, h ...gin.HandlerFunc) *Group { return g.add(http.MethodPut, path, h) }

func (g *Group) PATCH(path string, h ...gin.HandlerFunc) *Group {
	return g.add(http.MethodPatch, path, h)
}

func (g *Group) DELETE(path string, h ...gin.HandlerFunc) *Group {
	return g.add(http.MethodDelete, path, h)
}

func (g *Group) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.guards...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.nested {
		child.mount(rg)
	}
}

// Mount registers groups under base on engine.
func Mount(engine *gin.Engine, base string, groups ...*Group) {
	api := engine.Group(base)
	for _, g := range groups {
		g.mount(api)
	}
}
