package handler

import (
	"go-color-catalog/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything Register mounts.
type Handlers struct {
	Product  *ProductHandler
	Color    *ColorHandler
	Import   *ImportHandler
	Health   *HealthHandler
	Hub      *ws.Hub
	Gatherer prometheus.Gatherer
}

func Register(app *fiber.App, h Handlers) {
	products := app.Group("/products")
	products.Get("/", h.Product.GetProducts)
	products.Post("/", h.Product.CreateProduct)
	products.Put("/:id", h.Product.UpdateProduct)
	products.Delete("/:id", h.Product.DeleteProduct)

	colors := app.Group("/colors")
	colors.Get("/", h.Color.GetColors)
	colors.Post("/", h.Color.CreateColor)
	colors.Put("/:id", h.Color.UpdateColor)
	colors.Delete("/:id", h.Color.DeleteColor)

	upload := app.Group("/upload-excel")
	upload.Post("/", h.Import.UploadExcel)
	upload.Get("/template", h.Import.Template)

	if h.Health != nil {
		app.Get("/healthz", h.Health.Healthz)
	}

	if h.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}

	if h.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			if !h.Hub.Join(c) {
				return
			}
			defer h.Hub.Leave(c)

			// Clients only listen; reading detects disconnects.
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}
}
