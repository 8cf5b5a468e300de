package repository

import (
	"context"
	"errors"

	"facturador/internal/errs"
	"facturador/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProviderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProviderRepository(db *pgxpool.Pool, logger *zap.Logger) *ProviderRepository {
	return &ProviderRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProviderRepository) GetByCUIT(ctx context.Context, cuit string) (*models.Provider, error) {
	sql, args, err := squirrel.Select("id", "nombre", "cuit", "direccion").
		From("proveedores").
		Where(squirrel.Eq{"cuit": cuit}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	var p models.Provider
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Name, &p.CUIT, &p.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.New(errs.KindNotFound, "")
		}
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	return &p, nil
}

func (r *ProviderRepository) List(ctx context.Context) ([]*models.Provider, error) {
	sql, args, err := squirrel.Select("id", "nombre", "cuit", "direccion").
		From("proveedores").
		OrderBy("nombre").
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

	var providers []*models.Provider
	for rows.Next() {
		var p models.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.CUIT, &p.Address); err != nil {
			return nil, errs.Wrap(errs.KindInternal, "", err)
		}
		providers = append(providers, &p)
	}

	return providers, rows.Err()
}
