package handlers

import (
	"strconv"

	"facturador/internal/dto"
	"facturador/internal/errs"
	"facturador/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	processService *service.ProcessService
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(
	processService *service.ProcessService,
	invoiceService *service.InvoiceService,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		processService: processService,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// ProcessInvoice accepts a scanned invoice (png, jpg or pdf) in the "file"
// multipart field, runs detection and OCR and returns the extracted fields.
// The result is not persisted; the client reviews and confirms separately.
func (h *InvoiceHandler) ProcessInvoice(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errs.New(errs.KindInvalidData, "el campo 'file' es obligatorio")
	}

	src, err := file.Open()
	if err != nil {
		return errs.Wrap(errs.KindInvalidData, "no se pudo leer el archivo", err)
	}
	defer src.Close()

	result, err := h.processService.ProcessUpload(c.Context(), src, file.Filename)
	if err != nil {
		h.logger.Error("Failed to process invoice", zap.String("file", file.Filename), zap.Error(err))
		return err
	}

	return c.JSON(result)
}

// ConfirmInvoice persists a reviewed extraction as an invoice.
func (h *InvoiceHandler) ConfirmInvoice(c *fiber.Ctx) error {
	var req dto.ConfirmInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Wrap(errs.KindInvalidData, "cuerpo de la petición inválido", err)
	}

	resp, err := h.invoiceService.Create(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	invoices, err := h.invoiceService.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(invoices)
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := h.invoiceService.Get(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *InvoiceHandler) UpdateInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Wrap(errs.KindInvalidData, "cuerpo de la petición inválido", err)
	}

	resp, err := h.invoiceService.Update(c.Context(), id, &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.invoiceService.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.New(errs.KindInvalidData, "id inválido")
	}
	return id, nil
}
