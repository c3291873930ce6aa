package api

import (
	"context"
	"time"

	"poe2scout/pricer/internal/domain"
	"poe2scout/pricer/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// PriceService is the part of the orchestrator exposed over HTTP
type PriceService interface {
	GetPrice(ctx context.Context, item domain.QueryItem, league string) domain.PriceData
	RefreshAll(ctx context.Context, league string) bool
	ClearCache()
	IsDataLoaded() bool
	LastUpdateTime() time.Time
	DivinePrice() (float64, bool)
	Stats() store.Stats
	CurrencyByID(ctx context.Context, apiID, league string) (*domain.CurrencyItem, bool)
	UniquesByBaseName(ctx context.Context, baseName, league string) ([]domain.UniqueItem, bool)
}

type Handler struct {
	service       PriceService
	defaultLeague string
}

func NewHandler(service PriceService, defaultLeague string) *Handler {
	if defaultLeague == "" {
		defaultLeague = domain.StandardLeague
	}
	return &Handler{service: service, defaultLeague: defaultLeague}
}

// NewApp builds the fiber app with every route registered
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "poe2scout-pricer",
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	app.Use(recover.New())

	app.Get("/price", h.GetPrice)
	app.Get("/status", h.GetStatus)
	app.Post("/reload", h.Reload)
	app.Delete("/cache", h.ClearCache)
	app.Get("/currency/:apiId", h.GetCurrency)
	app.Get("/uniques/base/:baseName", h.GetUniquesByBase)

	return app
}

func (h *Handler) league(c *fiber.Ctx) string {
	return c.Query("league", h.defaultLeague)
}

// GetPrice resolves one query item. A miss is an empty result, not an error.
// GET /price?name=&base=&category=&league=
func (h *Handler) GetPrice(c *fiber.Ctx) error {
	item := domain.QueryItem{
		Name:          c.Query("name"),
		BaseName:      c.Query("base"),
		CategoryAPIID: c.Query("category"),
	}

	result := h.service.GetPrice(c.UserContext(), item, h.league(c))
	return c.JSON(result)
}

type statusResponse struct {
	Loaded      bool        `json:"loaded"`
	LastUpdate  *time.Time  `json:"last_update"`
	DivinePrice *float64    `json:"divine_price"`
	Stats       store.Stats `json:"stats"`
}

// GET /status
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	resp := statusResponse{
		Loaded: h.service.IsDataLoaded(),
		Stats:  h.service.Stats(),
	}
	if at := h.service.LastUpdateTime(); !at.IsZero() {
		resp.LastUpdate = &at
	}
	if divine, ok := h.service.DivinePrice(); ok {
		resp.DivinePrice = &divine
	}
	return c.JSON(resp)
}

// Reload rebuilds the catalog from scratch.
// POST /reload?league=
func (h *Handler) Reload(c *fiber.Ctx) error {
	league := h.league(c)
	log.Infof("🔄 Reload requested over HTTP for %s", league)

	if !h.service.RefreshAll(c.UserContext(), league) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load catalog categories",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// DELETE /cache
func (h *Handler) ClearCache(c *fiber.Ctx) error {
	h.service.ClearCache()
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /currency/:apiId
func (h *Handler) GetCurrency(c *fiber.Ctx) error {
	item, ok := h.service.CurrencyByID(c.UserContext(), c.Params("apiId"), h.league(c))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Currency item not found",
		})
	}
	return c.JSON(item)
}

// GET /uniques/base/:baseName
func (h *Handler) GetUniquesByBase(c *fiber.Ctx) error {
	items, ok := h.service.UniquesByBaseName(c.UserContext(), c.Params("baseName"), h.league(c))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No uniques found for base type",
		})
	}
	return c.JSON(fiber.Map{"items": items})
}
