package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

var (
	_ repository.ApprovalRepository = (*ApprovalRepo)(nil)
	_ repository.AdminRepository    = (*AdminRepo)(nil)
)

// ApprovalRepo cola de aprobaciones sobre PostgreSQL.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

func (r *ApprovalRepo) Create(ctx context.Context, a *entity.Approval) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO approvals (id, type, user_id, shop_id, status, approved_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Type, a.UserID, a.ShopID, a.Status, a.ApprovedBy, a.Notes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// GetForUpdate bloquea la aprobación (SELECT FOR UPDATE): dos admins decidiendo a la vez se serializan.
func (r *ApprovalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Approval, error) {
	var a entity.Approval
	err := r.q.QueryRow(ctx, `
		SELECT id, type, user_id, shop_id, status, approved_by, notes, created_at, updated_at
		FROM approvals WHERE id = $1 FOR UPDATE`, id).
		Scan(&a.ID, &a.Type, &a.UserID, &a.ShopID, &a.Status, &a.ApprovedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return &a, nil
}

func (r *ApprovalRepo) Decide(ctx context.Context, id, status, approvedBy string, notes *string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE approvals SET status = $2, approved_by = $3, notes = $4, updated_at = now()
		WHERE id = $1`, id, status, approvedBy, notes)
	if err != nil {
		return fmt.Errorf("decide approval: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// detailQuery une al solicitante: el usuario registrado o el dueño de la tienda.
const detailQuery = `
	SELECT a.id, a.type, a.user_id, a.shop_id, a.status, a.approved_by, a.notes, a.created_at, a.updated_at,
		COALESCE(u.name, o.name), COALESCE(u.email, o.email), COALESCE(u.role, o.role),
		s.name, s.address
	FROM approvals a
	LEFT JOIN users u ON u.id = a.user_id
	LEFT JOIN shops s ON s.id = a.shop_id
	LEFT JOIN users o ON o.id = s.owner_id`

// ListPending cola pendiente, las más antiguas primero.
func (r *ApprovalRepo) ListPending(ctx context.Context) ([]*entity.ApprovalDetail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE a.status = 'pending' ORDER BY a.created_at ASC, a.id ASC`)
}

func (r *ApprovalRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.ApprovalDetail, error) {
	return r.listDetails(ctx, detailQuery+` ORDER BY a.created_at DESC, a.id DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ApprovalRepo) listDetails(ctx context.Context, query string, args ...any) ([]*entity.ApprovalDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	list := []*entity.ApprovalDetail{}
	for rows.Next() {
		var d entity.ApprovalDetail
		if err := rows.Scan(&d.ID, &d.Type, &d.UserID, &d.ShopID, &d.Status, &d.ApprovedBy, &d.Notes,
			&d.CreatedAt, &d.UpdatedAt, &d.UserName, &d.UserEmail, &d.UserRole, &d.ShopName, &d.ShopAddress); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// AdminRepo conteos agregados.
type AdminRepo struct {
	q Querier
}

func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

func (r *AdminRepo) Stats(ctx context.Context) (*entity.AdminStats, error) {
	var s entity.AdminStats
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM shops),
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM approvals WHERE status = 'pending'),
			(SELECT count(*) FROM shops WHERE status = 'approved'),
			(SELECT count(*) FROM users WHERE status = 'pending')`).
		Scan(&s.TotalUsers, &s.TotalShops, &s.TotalProducts, &s.TotalOrders, &s.PendingApprovals, &s.ActiveShops, &s.PendingUsers)
	if err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &s, nil
}
