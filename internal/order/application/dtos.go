package application

import (
	"time"

	"github.com/marketplace/seller-portal/internal/order/domain"
)

// OrderDTO represents an order in API responses
type OrderDTO struct {
	OrderID         string        `json:"orderId"`
	OrderNumber     int64         `json:"orderNumber"`
	SellerID        string        `json:"sellerId"`
	CustomerID      string        `json:"customerId"`
	Items           []LineItemDTO `json:"items"`
	TotalPrice      float64       `json:"totalPrice"`
	Status          string        `json:"status"`
	PaymentMethod   string        `json:"paymentMethod"`
	ShippingAddress AddressDTO    `json:"shippingAddress"`
	Read            bool          `json:"read"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	DeliveredAt     *time.Time    `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty"`
}

// LineItemDTO represents an order line in API responses
type LineItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// AddressDTO represents a shipping address in API responses
type AddressDTO struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone,omitempty"`
}

// OrderListResponse is a paginated list of orders
type OrderListResponse struct {
	Orders   []*OrderDTO `json:"orders"`
	Total    int64       `json:"total"`
	Page     int64       `json:"page"`
	PageSize int64       `json:"pageSize"`
}

// StatsDTO is the seller dashboard aggregation in API responses
type StatsDTO struct {
	StatusCounts      map[string]int64 `json:"statusCounts"`
	TodayOrdersCount  int64            `json:"todayOrdersCount"`
	UnreadOrdersCount int64            `json:"unreadOrdersCount"`
	TotalRevenue      float64          `json:"totalRevenue"`
}

// ToOrderDTO converts an Order aggregate to its API representation
func ToOrderDTO(order *domain.Order) *OrderDTO {
	items := make([]LineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}

	return &OrderDTO{
		OrderID:       order.OrderID,
		OrderNumber:   order.OrderNumber,
		SellerID:      order.SellerID,
		CustomerID:    order.CustomerID,
		Items:         items,
		TotalPrice:    order.TotalPrice,
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		ShippingAddress: AddressDTO{
			FullName:   order.ShippingAddress.FullName,
			Line1:      order.ShippingAddress.Line1,
			Line2:      order.ShippingAddress.Line2,
			City:       order.ShippingAddress.City,
			State:      order.ShippingAddress.State,
			PostalCode: order.ShippingAddress.PostalCode,
			Phone:      order.ShippingAddress.Phone,
		},
		Read:        order.Read,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		DeliveredAt: order.DeliveredAt,
		CancelledAt: order.CancelledAt,
	}
}

// ToStatsDTO converts SellerStats to its API representation
func ToStatsDTO(stats *domain.SellerStats) *StatsDTO {
	counts := make(map[string]int64, len(stats.StatusCounts))
	for status, count := range stats.StatusCounts {
		counts[string(status)] = count
	}

	return &StatsDTO{
		StatusCounts:      counts,
		TodayOrdersCount:  stats.TodayOrdersCount,
		UnreadOrdersCount: stats.UnreadOrdersCount,
		TotalRevenue:      stats.TotalRevenue,
	}
}
