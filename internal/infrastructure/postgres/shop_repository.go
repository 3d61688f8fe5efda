package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo tiendas sobre PostgreSQL. owner_id tiene constraint UNIQUE.
type ShopRepo struct {
	q Querier
}

// NewShopRepository pasar pool o tx (Querier).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

const shopColumns = `s.id, s.owner_id, s.name, s.address, s.phone, s.latitude, s.longitude, s.status, s.created_at, s.updated_at`

func shopDest(s *entity.Shop) []any {
	return []any{&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.Phone, &s.Latitude, &s.Longitude, &s.Status, &s.CreatedAt, &s.UpdatedAt}
}

// Create persiste la tienda; un segundo intento del mismo dueño devuelve ErrShopAlreadyExists.
func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	query := `
		INSERT INTO shops (id, owner_id, name, address, phone, latitude, longitude, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OwnerID, s.Name, s.Address, s.Phone, s.Latitude, s.Longitude, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShopAlreadyExists
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	return r.getOne(ctx, `SELECT `+shopColumns+` FROM shops s WHERE s.id = $1`, id)
}

func (r *ShopRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.Shop, error) {
	return r.getOne(ctx, `SELECT `+shopColumns+` FROM shops s WHERE s.owner_id = $1`, ownerID)
}

func (r *ShopRepo) getOne(ctx context.Context, query string, arg string) (*entity.Shop, error) {
	var s entity.Shop
	if err := r.q.QueryRow(ctx, query, arg).Scan(shopDest(&s)...); err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &s, nil
}

func (r *ShopRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shops SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update shop status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ShopRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Shop, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+shopColumns+` FROM shops s WHERE s.status = $1 ORDER BY s.created_at DESC, s.id DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()
	list := []*entity.Shop{}
	for rows.Next() {
		var s entity.Shop
		if err := rows.Scan(shopDest(&s)...); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListWithOwner listado de administración con nombre y email del dueño.
func (r *ShopRepo) ListWithOwner(ctx context.Context, limit, offset int) ([]*entity.ShopWithOwner, error) {
	query := `
		SELECT ` + shopColumns + `, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM shops s LEFT JOIN users u ON u.id = s.owner_id
		ORDER BY s.created_at DESC, s.id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list shops with owner: %w", err)
	}
	defer rows.Close()
	list := []*entity.ShopWithOwner{}
	for rows.Next() {
		var row entity.ShopWithOwner
		dest := append(shopDest(&row.Shop), &row.OwnerName, &row.OwnerEmail)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}
