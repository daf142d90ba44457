// Package api exposes the fridge, menu and reconciliation services over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/korjavin/fridgechef/pkg/fridge"
	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/menu"
	"github.com/korjavin/fridgechef/pkg/models"
	"github.com/korjavin/fridgechef/pkg/reconcile"
)

// Server holds the HTTP routes and the services behind them
type Server struct {
	router     *gin.Engine
	reconciler *reconcile.Reconciler
	fridges    *fridge.Service
	menus      *menu.Service
	menuCount  int
	logger     *logger.Logger
}

// New creates the HTTP server. menus may be nil, in which case the menu
// routes are not registered.
func New(reconciler *reconcile.Reconciler, fridges *fridge.Service, menus *menu.Service, menuCount int) *Server {
	if reconciler == nil {
		reconciler = reconcile.New()
	}

	s := &Server{
		router:     gin.New(),
		reconciler: reconciler,
		fridges:    fridges,
		menus:      menus,
		menuCount:  menuCount,
		logger:     logger.New("api"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the http.Handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/reconcile", s.Reconcile)

		owner := api.Group("/fridges/:owner")
		owner.GET("/items", s.ListItems)
		owner.POST("/items", s.AddItem)
		owner.PUT("/items/:id", s.UpdateItem)
		owner.DELETE("/items/:id", s.RemoveItem)
		owner.POST("/consume", s.Consume)

		if s.menus != nil {
			owner.POST("/menus", s.SuggestMenus)
			owner.GET("/menus", s.MenuHistory)
			owner.POST("/menus/:id/complete", s.CompleteMenu)
		}
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

type reconcileRequest struct {
	Items json.RawMessage `json:"items"`
	Used  json.RawMessage `json:"used"`
}

// Reconcile runs the engine over the posted inventory without touching storage
func (s *Server) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	items := s.decodeItems(req.Items)
	c.JSON(http.StatusOK, gin.H{"items": s.reconciler.Apply(items, reconcile.DecodeEntries(req.Used))})
}

// decodeItems reads a list of inventory items. Anything that is not a list
// yields an empty inventory. Object elements are always kept, see decodeItem.
func (s *Server) decodeItems(raw json.RawMessage) []models.InventoryItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []models.InventoryItem{}
	}

	items := make([]models.InventoryItem, 0, len(elems))
	for i, e := range elems {
		it, ok := decodeItem(e)
		if !ok {
			s.logger.Debug("Dropping inventory element %d: not an object", i)
			continue
		}
		items = append(items, it)
	}
	return items
}

// ListItems returns the fridge contents
func (s *Server) ListItems(c *gin.Context) {
	items, err := s.fridges.ListItems(c.Param("owner"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddItem stores a new item, or tops up an existing one
func (s *Server) AddItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := s.fridges.AddItem(c.Param("owner"), item)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateItem replaces an item
func (s *Server) UpdateItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.ID = c.Param("id")

	saved, err := s.fridges.UpdateItem(c.Param("owner"), item)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// RemoveItem deletes an item
func (s *Server) RemoveItem(c *gin.Context) {
	if err := s.fridges.RemoveItem(c.Param("owner"), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type consumeRequest struct {
	Used   json.RawMessage `json:"used"`
	DryRun bool            `json:"dry_run"`
}

// Consume takes used ingredients out of the stored fridge
func (s *Server) Consume(c *gin.Context) {
	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, adjustments, err := s.fridges.ApplyUsage(c.Param("owner"), reconcile.DecodeEntries(req.Used), req.DryRun)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "adjustments": adjustments})
}

type suggestRequest struct {
	Count int `json:"count"`
}

// SuggestMenus asks for menus based on the fridge contents
func (s *Server) SuggestMenus(c *gin.Context) {
	req := suggestRequest{Count: s.menuCount}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	records, err := s.menus.Suggest(c.Request.Context(), c.Param("owner"), req.Count)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": records})
}

// MenuHistory lists past suggestions, newest first
func (s *Server) MenuHistory(c *gin.Context) {
	records, err := s.menus.History(c.Param("owner"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": records})
}

// CompleteMenu marks a menu as cooked and decrements the fridge
func (s *Server) CompleteMenu(c *gin.Context) {
	items, adjustments, err := s.menus.Complete(c.Param("owner"), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "adjustments": adjustments})
}

// fail maps service errors to status codes. Unknown errors are logged and
// answered with a generic message.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fridge.ErrItemNotFound), errors.Is(err, menu.ErrMenuNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, fridge.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, menu.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
