package dto

import "time"

// AdminStatsResponse conteos del panel de administración.
type AdminStatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalShops       int64 `json:"total_shops"`
	TotalProducts    int64 `json:"total_products"`
	TotalOrders      int64 `json:"total_orders"`
	PendingApprovals int64 `json:"pending_approvals"`
	ActiveShops      int64 `json:"active_shops"`
	PendingUsers     int64 `json:"pending_users"`
}

// DecideApprovalRequest cuerpo opcional de POST /api/admin/approvals/:id/:action.
type DecideApprovalRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// ApprovalResponse aprobación con los datos de quien la solicita.
type ApprovalResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	UserID      *string   `json:"user_id,omitempty"`
	ShopID      *string   `json:"shop_id,omitempty"`
	Status      string    `json:"status"`
	ApprovedBy  *string   `json:"approved_by,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	UserName    *string   `json:"user_name,omitempty"`
	UserEmail   *string   `json:"user_email,omitempty"`
	UserRole    *string   `json:"user_role,omitempty"`
	ShopName    *string   `json:"shop_name,omitempty"`
	ShopAddress *string   `json:"shop_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
