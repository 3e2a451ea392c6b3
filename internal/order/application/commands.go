package application

// RequestedItem identifies a product variant and quantity in a new order
type RequestedItem struct {
	ProductID string `json:"productId" binding:"required,product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// ShippingAddress is the address payload for a new order
type ShippingAddress struct {
	FullName   string `json:"fullName" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Phone      string `json:"phone"`
}

// CreateOrderCommand represents the command to place a new order
type CreateOrderCommand struct {
	CustomerID      string          `json:"customerId" binding:"required"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required,payment_method"`
	Items           []RequestedItem `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress" binding:"required"`
}

// ChangeStatusCommand represents the command to move an order to a new status
type ChangeStatusCommand struct {
	OrderID       string `json:"-"`
	ActorSellerID string `json:"-"`
	Status        string `json:"status" binding:"required"`
}

// MarkReadCommand represents the command to mark an order as read
type MarkReadCommand struct {
	OrderID       string
	ActorSellerID string
}

// ListOrdersQuery represents the query for a seller's orders
type ListOrdersQuery struct {
	SellerID string
	Status   *string
	Unread   *bool
	Page     int64
	PageSize int64
}

// GetOrderQuery represents the query for a single order
type GetOrderQuery struct {
	OrderID       string
	ActorSellerID string
}
