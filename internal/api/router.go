package api

import (
	"facturador/internal/api/handlers"
	"facturador/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	invoiceHandler *handlers.InvoiceHandler,
	providerHandler *handlers.ProviderHandler,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			kind := errs.KindOf(err)
			if kind == errs.KindInternal {
				appLogger.Error("Request failed", zap.Error(err))
			}
			return c.Status(errs.HTTPStatus(err)).JSON(fiber.Map{
				"error":   string(kind),
				"message": errs.MessageOf(err),
			})
		},
		BodyLimit: 20 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api/v1")

	invoices := api.Group("/invoices")
	invoices.Post("/process", invoiceHandler.ProcessInvoice)
	invoices.Post("/confirm", invoiceHandler.ConfirmInvoice)
	invoices.Get("", invoiceHandler.ListInvoices)
	invoices.Get("/:id", invoiceHandler.GetInvoice)
	invoices.Put("/:id", invoiceHandler.UpdateInvoice)
	invoices.Delete("/:id", invoiceHandler.DeleteInvoice)

	api.Get("/providers", providerHandler.ListProviders)

	return app
}
