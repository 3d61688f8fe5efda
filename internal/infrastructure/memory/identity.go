package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.ShopRepository     = (*ShopRepo)(nil)
	_ repository.ApprovalRepository = (*ApprovalRepo)(nil)
	_ repository.AdminRepository    = (*AdminRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.lock()()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdateStatus(_ context.Context, id, status string) error {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	defer r.lock()()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return page(out, limit, offset), nil
}

// ShopRepo tiendas en memoria; owner_id es único como en la tabla.
type ShopRepo struct{ base }

func (r *ShopRepo) Create(_ context.Context, s *entity.Shop) error {
	defer r.lock()()
	for _, existing := range r.s.shops {
		if existing.OwnerID == s.OwnerID {
			return domain.ErrShopAlreadyExists
		}
	}
	c := *s
	r.s.shops[s.ID] = &c
	return nil
}

func (r *ShopRepo) GetByID(_ context.Context, id string) (*entity.Shop, error) {
	defer r.lock()()
	s, ok := r.s.shops[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *ShopRepo) GetByOwner(_ context.Context, ownerID string) (*entity.Shop, error) {
	defer r.lock()()
	for _, s := range r.s.shops {
		if s.OwnerID == ownerID {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ShopRepo) UpdateStatus(_ context.Context, id, status string) error {
	defer r.lock()()
	s, ok := r.s.shops[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ShopRepo) ListByStatus(_ context.Context, status string) ([]*entity.Shop, error) {
	defer r.lock()()
	out := []*entity.Shop{}
	for _, s := range r.s.shops {
		if s.Status == status {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *ShopRepo) ListWithOwner(_ context.Context, limit, offset int) ([]*entity.ShopWithOwner, error) {
	defer r.lock()()
	out := make([]*entity.ShopWithOwner, 0, len(r.s.shops))
	for _, s := range r.s.shops {
		row := &entity.ShopWithOwner{Shop: *s}
		if u, ok := r.s.users[s.OwnerID]; ok {
			row.OwnerName, row.OwnerEmail = u.Name, u.Email
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return page(out, limit, offset), nil
}

// ApprovalRepo cola de aprobaciones en memoria.
type ApprovalRepo struct{ base }

func (r *ApprovalRepo) Create(_ context.Context, a *entity.Approval) error {
	defer r.lock()()
	c := *a
	r.s.approvals[a.ID] = &c
	return nil
}

// GetForUpdate fuera de una transacción equivale a un GetByID.
func (r *ApprovalRepo) GetForUpdate(_ context.Context, id string) (*entity.Approval, error) {
	defer r.lock()()
	a, ok := r.s.approvals[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *ApprovalRepo) Decide(_ context.Context, id, status, approvedBy string, notes *string) error {
	defer r.lock()()
	a, ok := r.s.approvals[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	a.ApprovedBy = &approvedBy
	a.Notes = notes
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ApprovalRepo) ListPending(_ context.Context) ([]*entity.ApprovalDetail, error) {
	defer r.lock()()
	out := []*entity.ApprovalDetail{}
	for _, a := range r.s.approvals {
		if a.Status == entity.ApprovalPending {
			out = append(out, r.detail(a))
		}
	}
	// las más antiguas primero, como una cola
	sort.Slice(out, func(i, j int) bool { return newer(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID) })
	return out, nil
}

func (r *ApprovalRepo) ListAll(_ context.Context, limit, offset int) ([]*entity.ApprovalDetail, error) {
	defer r.lock()()
	out := make([]*entity.ApprovalDetail, 0, len(r.s.approvals))
	for _, a := range r.s.approvals {
		out = append(out, r.detail(a))
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return page(out, limit, offset), nil
}

func (r *ApprovalRepo) detail(a *entity.Approval) *entity.ApprovalDetail {
	d := &entity.ApprovalDetail{Approval: *a}
	if a.UserID != nil {
		if u, ok := r.s.users[*a.UserID]; ok {
			name, email, role := u.Name, u.Email, u.Role
			d.UserName, d.UserEmail, d.UserRole = &name, &email, &role
		}
	}
	if a.ShopID != nil {
		if s, ok := r.s.shops[*a.ShopID]; ok {
			name, addr := s.Name, s.Address
			d.ShopName, d.ShopAddress = &name, &addr
			if u, ok := r.s.users[s.OwnerID]; ok {
				uname, email, role := u.Name, u.Email, u.Role
				d.UserName, d.UserEmail, d.UserRole = &uname, &email, &role
			}
		}
	}
	return d
}

// AdminRepo conteos sobre el store.
type AdminRepo struct{ base }

func (r *AdminRepo) Stats(_ context.Context) (*entity.AdminStats, error) {
	defer r.lock()()
	st := &entity.AdminStats{
		TotalUsers:    int64(len(r.s.users)),
		TotalShops:    int64(len(r.s.shops)),
		TotalProducts: int64(len(r.s.products)),
		TotalOrders:   int64(len(r.s.orders)),
	}
	for _, a := range r.s.approvals {
		if a.Status == entity.ApprovalPending {
			st.PendingApprovals++
		}
	}
	for _, s := range r.s.shops {
		if s.Status == entity.ShopApproved {
			st.ActiveShops++
		}
	}
	for _, u := range r.s.users {
		if u.Status == entity.UserPending {
			st.PendingUsers++
		}
	}
	return st, nil
}

// newer orden descendente por fecha con desempate por id.
func newer(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
