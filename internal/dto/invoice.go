package dto

// LineItemPayload mirrors one parsed table row on the wire.
type LineItemPayload struct {
	Descripcion string  `json:"descripcion"`
	Cantidad    int     `json:"cantidad"`
	Subtotal    float64 `json:"subtotal"`
}

// ExtractionResponse is the result of processing an upload. Nothing is
// persisted at this point; the client reviews and then confirms.
type ExtractionResponse struct {
	TipoFactura   string            `json:"tipo_factura"`
	RazonSocial   string            `json:"razon_social"`
	CUITEmisor    string            `json:"cuit_emisor"`
	NumeroFactura string            `json:"numero_factura"`
	Fecha         string            `json:"fecha"`
	TablaItems    []LineItemPayload `json:"tabla_items"`
	Total         string            `json:"total"`
	Confianza     map[string]float64 `json:"confianza,omitempty"`
}

// ConfirmInvoiceRequest persists a reviewed document. Total carries the
// normalized decimal string the amount normalizer produces.
type ConfirmInvoiceRequest struct {
	TipoFactura   string            `json:"tipo_factura"`
	RazonSocial   string            `json:"razon_social"`
	CUITEmisor    string            `json:"cuit_emisor"`
	NumeroFactura string            `json:"numero_factura"`
	Fecha         string            `json:"fecha"`
	Direccion     string            `json:"direccion,omitempty"`
	TablaItems    []LineItemPayload `json:"tabla_items"`
	Total         string            `json:"total"`
}

// UpdateInvoiceRequest edits an already confirmed invoice. Items, when
// present, replace the stored rows entirely.
type UpdateInvoiceRequest struct {
	TipoFactura   string             `json:"tipo_factura"`
	NumeroFactura string             `json:"numero_factura"`
	Fecha         string             `json:"fecha"`
	TablaItems    *[]LineItemPayload `json:"tabla_items,omitempty"`
	Total         string             `json:"total"`
}

type ProviderResponse struct {
	Nombre    string `json:"nombre"`
	CUIT      string `json:"cuit"`
	Direccion string `json:"direccion"`
}

type InvoiceResponse struct {
	ID            int64             `json:"id"`
	NumeroFactura string            `json:"numero_factura"`
	Fecha         string            `json:"fecha"`
	TipoFactura   string            `json:"tipo_factura"`
	Total         float64           `json:"total"`
	Proveedor     ProviderResponse  `json:"proveedor"`
	Detalles      []LineItemPayload `json:"detalles"`
	CreatedAt     string            `json:"created_at"`
}
