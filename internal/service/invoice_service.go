package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"facturador/internal/dto"
	"facturador/internal/errs"
	"facturador/internal/extract"
	"facturador/internal/models"

	"go.uber.org/zap"
)

// InvoiceStore is the persistence surface the service needs. Implemented by
// repository.InvoiceRepository; narrowed to an interface so validation logic
// is testable without a database.
type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice, provider *models.Provider) (*models.Invoice, error)
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice, items *[]models.InvoiceLineItem) error
	Delete(ctx context.Context, id int64) error
}

type InvoiceService struct {
	store  InvoiceStore
	logger *zap.Logger
}

func NewInvoiceService(store InvoiceStore, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		store:  store,
		logger: logger,
	}
}

// Create validates a reviewed document and persists it. The declared total
// must reconcile with the line items; nothing is corrected silently.
func (s *InvoiceService) Create(ctx context.Context, req *dto.ConfirmInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateRequired(req); err != nil {
		return nil, err
	}

	items := toLineItems(req.TablaItems)
	if err := extract.ReconcileTotal(req.Total, items); err != nil {
		return nil, err
	}

	total, err := strconv.ParseFloat(req.Total, 64)
	if err != nil {
		return nil, errs.Newf(errs.KindInvalidData, "el total %q no es un monto válido", req.Total)
	}

	inv := &models.Invoice{
		Number:      strings.TrimSpace(req.NumeroFactura),
		Date:        strings.TrimSpace(req.Fecha),
		InvoiceType: strings.TrimSpace(req.TipoFactura),
		Total:       total,
		Items:       toModelItems(req.TablaItems),
	}
	provider := &models.Provider{
		Name:    strings.TrimSpace(req.RazonSocial),
		CUIT:    strings.TrimSpace(req.CUITEmisor),
		Address: strings.TrimSpace(req.Direccion),
	}

	created, err := s.store.Create(ctx, inv, provider)
	if err != nil {
		return nil, err
	}
	created.Provider = provider

	return toResponse(created), nil
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(inv), nil
}

func (s *InvoiceService) List(ctx context.Context, limit, offset int) ([]*dto.InvoiceResponse, error) {
	invoices, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = toResponse(inv)
	}
	return responses, nil
}

// Update edits an existing invoice. When items are sent the total is
// re-reconciled against them; otherwise against the stored rows.
func (s *InvoiceService) Update(ctx context.Context, id int64, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.NumeroFactura) == "" {
		return nil, errs.New(errs.KindInvalidData, "numero_factura es obligatorio")
	}

	reconcileAgainst := current.Items
	var replacement *[]models.InvoiceLineItem
	if req.TablaItems != nil {
		replacement = new([]models.InvoiceLineItem)
		*replacement = toModelItems(*req.TablaItems)
		reconcileAgainst = *replacement
	}

	if err := extract.ReconcileTotal(req.Total, modelToLineItems(reconcileAgainst)); err != nil {
		return nil, err
	}
	total, err := strconv.ParseFloat(req.Total, 64)
	if err != nil {
		return nil, errs.Newf(errs.KindInvalidData, "el total %q no es un monto válido", req.Total)
	}

	current.Number = strings.TrimSpace(req.NumeroFactura)
	current.Date = strings.TrimSpace(req.Fecha)
	current.InvoiceType = strings.TrimSpace(req.TipoFactura)
	current.Total = total

	if err := s.store.Update(ctx, current, replacement); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func validateRequired(req *dto.ConfirmInvoiceRequest) error {
	switch {
	case strings.TrimSpace(req.NumeroFactura) == "":
		return errs.New(errs.KindInvalidData, "numero_factura es obligatorio")
	case strings.TrimSpace(req.RazonSocial) == "":
		return errs.New(errs.KindInvalidData, "razon_social es obligatoria")
	case strings.TrimSpace(req.CUITEmisor) == "":
		return errs.New(errs.KindInvalidData, "cuit_emisor es obligatorio")
	}
	return nil
}

func toLineItems(payload []dto.LineItemPayload) []extract.LineItem {
	items := make([]extract.LineItem, len(payload))
	for i, p := range payload {
		items[i] = extract.LineItem{
			Description: p.Descripcion,
			Quantity:    p.Cantidad,
			Subtotal:    p.Subtotal,
		}
	}
	return items
}

func toModelItems(payload []dto.LineItemPayload) []models.InvoiceLineItem {
	items := make([]models.InvoiceLineItem, len(payload))
	for i, p := range payload {
		items[i] = models.InvoiceLineItem{
			Description: strings.TrimSpace(p.Descripcion),
			Quantity:    p.Cantidad,
			Subtotal:    p.Subtotal,
		}
	}
	return items
}

func modelToLineItems(items []models.InvoiceLineItem) []extract.LineItem {
	out := make([]extract.LineItem, len(items))
	for i, item := range items {
		out[i] = extract.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}
	return out
}

func toResponse(inv *models.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		NumeroFactura: inv.Number,
		Fecha:         inv.Date,
		TipoFactura:   inv.InvoiceType,
		Total:         inv.Total,
		Detalles:      make([]dto.LineItemPayload, len(inv.Items)),
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.Provider != nil {
		resp.Proveedor = dto.ProviderResponse{
			Nombre:    inv.Provider.Name,
			CUIT:      inv.Provider.CUIT,
			Direccion: inv.Provider.Address,
		}
	}
	for i, item := range inv.Items {
		resp.Detalles[i] = dto.LineItemPayload{
			Descripcion: item.Description,
			Cantidad:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}
	return resp
}
