package dto

import "github.com/jhoicas/localmart-api/internal/domain/entity"

// NewUserResponse convierte una entidad User (sin hash).
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role,
		Status:         u.Status,
		DrivingLicense: u.DrivingLicense,
		CreatedAt:      u.CreatedAt,
	}
}

func NewShopResponse(s *entity.Shop) ShopResponse {
	return ShopResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ShopID:      p.ShopID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Barcode:     p.Barcode,
		ImageURL:    p.ImageURL,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewOrderResponse incluye las líneas si vienen cargadas.
func NewOrderResponse(o *entity.Order) OrderResponse {
	out := OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		ShopID:          o.ShopID,
		CourierID:       o.CourierID,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		ServiceFee:      o.ServiceFee,
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return out
}

func NewApprovalResponse(a *entity.ApprovalDetail) ApprovalResponse {
	return ApprovalResponse{
		ID:          a.ID,
		Type:        a.Type,
		UserID:      a.UserID,
		ShopID:      a.ShopID,
		Status:      a.Status,
		ApprovedBy:  a.ApprovedBy,
		Notes:       a.Notes,
		UserName:    a.UserName,
		UserEmail:   a.UserEmail,
		UserRole:    a.UserRole,
		ShopName:    a.ShopName,
		ShopAddress: a.ShopAddress,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
