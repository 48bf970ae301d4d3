// Package server exposes the REST API over gin.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sweetshop/auth"
	"sweetshop/service"
)

// Server wires the services into a gin engine.
type Server struct {
	catalog   *service.Catalog
	inventory *service.Inventory
	identity  *service.Identity
	tokens    *auth.Issuer
	log       *zap.Logger
	engine    *gin.Engine
}

// New constructs a Server and registers all routes.
func New(catalog *service.Catalog, inventory *service.Inventory, identity *service.Identity, tokens *auth.Issuer, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		catalog:   catalog,
		inventory: inventory,
		identity:  identity,
		tokens:    tokens,
		log:       log,
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.Default())
	s.engine.Use(requestLogger(log))

	s.engine.POST("/owner/login", s.ownerLogin)
	s.engine.POST("/customers/login", s.customerLogin)

	s.engine.GET("/sweets", s.listSweets)
	s.engine.GET("/sweets/search", s.searchSweets)
	s.engine.POST("/sweets", s.requireRole(auth.RoleOwner), s.addSweet)
	s.engine.DELETE("/sweets/:id", s.requireRole(auth.RoleOwner), s.deleteSweet)
	s.engine.PATCH("/sweets/:id/restock", s.requireRole(auth.RoleOwner), s.restockSweet)
	s.engine.POST("/sweets/:id/purchase", s.requireRole(auth.RoleCustomer), s.purchaseSweet)

	s.engine.GET("/purchases", s.requireRole(auth.RoleOwner, auth.RoleCustomer), s.listPurchases)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}
