package models

import "time"

// Provider is the invoice issuer, keyed by CUIT. One provider owns many
// invoices.
type Provider struct {
	ID      int64  `db:"id"`
	Name    string `db:"nombre"`
	CUIT    string `db:"cuit"`
	Address string `db:"direccion"`
}

// Invoice is one persisted document. Fecha keeps the DD/MM/YYYY rendering
// produced by the date normalizer.
type Invoice struct {
	ID          int64     `db:"id"`
	Number      string    `db:"numero"`
	Date        string    `db:"fecha"`
	InvoiceType string    `db:"tipo_factura"`
	Total       float64   `db:"total"`
	ProviderID  int64     `db:"proveedor_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	Provider *Provider
	Items    []InvoiceLineItem
}

// InvoiceLineItem is one row of the items table. Rows live and die with their
// invoice (ON DELETE CASCADE).
type InvoiceLineItem struct {
	ID          int64   `db:"id"`
	InvoiceID   int64   `db:"factura_id"`
	Description string  `db:"descripcion"`
	Quantity    int     `db:"cantidad"`
	Subtotal    float64 `db:"subtotal"`
}
