package repository

import (
	"context"
	"errors"
	"time"

	"facturador/internal/errs"
	"facturador/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type InvoiceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInvoiceRepository(db *pgxpool.Pool, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists an invoice, its provider and its line items in a single
// transaction. The provider is matched by CUIT: an existing provider with a
// different name is a conflict, never silently renamed. Any failure rolls the
// whole write back.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice, provider *models.Provider) (*models.Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}
	defer tx.Rollback(ctx)

	providerID, err := r.resolveProvider(ctx, tx, provider)
	if err != nil {
		return nil, err
	}
	inv.ProviderID = providerID

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	sql, args, err := squirrel.Insert("facturas").
		Columns("numero", "fecha", "tipo_factura", "total", "proveedor_id", "created_at", "updated_at").
		Values(inv.Number, inv.Date, inv.InvoiceType, inv.Total, inv.ProviderID, inv.CreatedAt, inv.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&inv.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, errs.Newf(errs.KindDuplicateData,
				"ya existe una factura con el número %s", inv.Number)
		}
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	if err := r.insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	r.logger.Info("Invoice created",
		zap.Int64("invoice_id", inv.ID),
		zap.String("numero", inv.Number),
		zap.Int("items", len(inv.Items)),
	)

	return inv, nil
}

// resolveProvider finds the provider by CUIT or inserts it. A CUIT already
// registered under a different name rejects the write.
func (r *InvoiceRepository) resolveProvider(ctx context.Context, tx pgx.Tx, provider *models.Provider) (int64, error) {
	sql, args, err := squirrel.Select("id", "nombre").
		From("proveedores").
		Where(squirrel.Eq{"cuit": provider.CUIT}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "", err)
	}

	var id int64
	var name string
	err = tx.QueryRow(ctx, sql, args...).Scan(&id, &name)
	switch {
	case err == nil:
		if name != provider.Name {
			return 0, errs.Newf(errs.KindDuplicateData,
				"el CUIT %s ya está registrado con la razón social %q", provider.CUIT, name)
		}
		return id, nil
	case errors.Is(err, pgx.ErrNoRows):
		// fall through to insert
	default:
		return 0, errs.Wrap(errs.KindInternal, "", err)
	}

	sql, args, err = squirrel.Insert("proveedores").
		Columns("nombre", "cuit", "direccion").
		Values(provider.Name, provider.CUIT, provider.Address).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.Newf(errs.KindDuplicateData,
				"el CUIT %s ya está registrado", provider.CUIT)
		}
		return 0, errs.Wrap(errs.KindInternal, "", err)
	}

	return id, nil
}

func (r *InvoiceRepository) insertItems(ctx context.Context, tx pgx.Tx, invoiceID int64, items []models.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}

	builder := squirrel.Insert("detalle_factura").
		Columns("factura_id", "descripcion", "cantidad", "subtotal").
		PlaceholderFormat(squirrel.Dollar)
	for _, item := range items {
		builder = builder.Values(invoiceID, item.Description, item.Quantity, item.Subtotal)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}

	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	sql, args, err := squirrel.Select(
		"f.id", "f.numero", "f.fecha", "f.tipo_factura", "f.total",
		"f.proveedor_id", "f.created_at", "f.updated_at",
		"p.id", "p.nombre", "p.cuit", "p.direccion",
	).
		From("facturas f").
		Join("proveedores p ON p.id = f.proveedor_id").
		Where(squirrel.Eq{"f.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	var inv models.Invoice
	var provider models.Provider
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&inv.ID, &inv.Number, &inv.Date, &inv.InvoiceType, &inv.Total,
		&inv.ProviderID, &inv.CreatedAt, &inv.UpdatedAt,
		&provider.ID, &provider.Name, &provider.CUIT, &provider.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.KindNotFound, "")
		}
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}
	inv.Provider = &provider

	items, err := r.listItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return &inv, nil
}

func (r *InvoiceRepository) listItems(ctx context.Context, invoiceID int64) ([]models.InvoiceLineItem, error) {
	sql, args, err := squirrel.Select("id", "factura_id", "descripcion", "cantidad", "subtotal").
		From("detalle_factura").
		Where(squirrel.Eq{"factura_id": invoiceID}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}
	defer rows.Close()

	var items []models.InvoiceLineItem
	for rows.Next() {
		var item models.InvoiceLineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.Subtotal); err != nil {
			return nil, errs.Wrap(errs.KindInternal, "", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	sql, args, err := squirrel.Select(
		"f.id", "f.numero", "f.fecha", "f.tipo_factura", "f.total",
		"f.proveedor_id", "f.created_at", "f.updated_at",
		"p.id", "p.nombre", "p.cuit", "p.direccion",
	).
		From("facturas f").
		Join("proveedores p ON p.id = f.proveedor_id").
		OrderBy("f.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var provider models.Provider
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.Date, &inv.InvoiceType, &inv.Total,
			&inv.ProviderID, &inv.CreatedAt, &inv.UpdatedAt,
			&provider.ID, &provider.Name, &provider.CUIT, &provider.Address,
		); err != nil {
			return nil, errs.Wrap(errs.KindInternal, "", err)
		}
		inv.Provider = &provider
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	for _, inv := range invoices {
		items, err := r.listItems(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}

	return invoices, nil
}

// Update rewrites the invoice core fields; when items is non-nil the stored
// rows are replaced wholesale. Runs in one transaction.
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice, items *[]models.InvoiceLineItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}
	defer tx.Rollback(ctx)

	sql, args, err := squirrel.Update("facturas").
		Set("numero", inv.Number).
		Set("fecha", inv.Date).
		Set("tipo_factura", inv.InvoiceType).
		Set("total", inv.Total).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": inv.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Newf(errs.KindDuplicateData,
				"ya existe una factura con el número %s", inv.Number)
		}
		return errs.Wrap(errs.KindInternal, "", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.KindNotFound, "")
	}

	if items != nil {
		sql, args, err = squirrel.Delete("detalle_factura").
			Where(squirrel.Eq{"factura_id": inv.ID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return errs.Wrap(errs.KindInternal, "", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return errs.Wrap(errs.KindInternal, "", err)
		}
		if err := r.insertItems(ctx, tx, inv.ID, *items); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}

	return nil
}

// Delete removes the invoice; line items go with it via ON DELETE CASCADE.
func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("facturas").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.New(errs.KindNotFound, "")
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
