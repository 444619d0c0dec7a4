package http

import (
	"time"

	"github.com/legolas182/NatureGlow/internal/entity"
)

type orderItemResp struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

type orderResp struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	TotalCents      int64           `json:"totalCents"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingAddress string          `json:"shippingAddress"`
	ShippingCity    string          `json:"shippingCity"`
	ShippingZip     string          `json:"shippingZip"`
	ShippingCountry string          `json:"shippingCountry"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []orderItemResp `json:"items"`
}

func toOrderResp(o *entity.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			SubtotalCents:  it.SubtotalCents,
		})
	}
	return orderResp{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		TotalCents:      o.TotalCents,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingZip:     o.ShippingZip,
		ShippingCountry: o.ShippingCountry,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

func toOrderResps(orders []*entity.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return out
}

type productResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int    `json:"stock"`
	CategoryID  string `json:"categoryId"`
	ImageURL    string `json:"imageUrl"`
	Featured    bool   `json:"featured"`
	Active      bool   `json:"active"`
}

func toProductResp(p *entity.Product) productResp {
	return productResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Featured:    p.Featured,
		Active:      p.Active,
	}
}

type userResp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func toUserResp(u *entity.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), Active: u.Active}
}

type categoryResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func toCategoryResp(c *entity.Category) categoryResp {
	return categoryResp{ID: c.ID, Name: c.Name, Type: c.Type, Description: c.Description, Active: c.Active}
}
