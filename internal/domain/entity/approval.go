package entity

import "time"

// Tipos de aprobación.
const (
	ApprovalUserRegistration = "user_registration"
	ApprovalShop             = "shop_approval"
)

// Estados de aprobación.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Acciones del administrador.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Approval solicitud pendiente de decisión del administrador.
// Exactamente uno de UserID o ShopID está presente según Type.
type Approval struct {
	ID         string
	Type       string
	UserID     *string
	ShopID     *string
	Status     string
	ApprovedBy *string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ApprovalDetail aprobación con los datos de quien la solicita.
type ApprovalDetail struct {
	Approval
	UserName    *string
	UserEmail   *string
	UserRole    *string
	ShopName    *string
	ShopAddress *string
}

// AdminStats conteos globales.
type AdminStats struct {
	TotalUsers       int64
	TotalShops       int64
	TotalProducts    int64
	TotalOrders      int64
	PendingApprovals int64
	ActiveShops      int64
	PendingUsers     int64
}
