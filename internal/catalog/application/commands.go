package application

// VariantInput is a sellable size/color combination
type VariantInput struct {
	Size  string `json:"size" binding:"required"`
	Color string `json:"color" binding:"required"`
	Stock int64  `json:"stock" binding:"gte=0"`
}

// CreateProductCommand creates a new catalog listing
type CreateProductCommand struct {
	SellerID    string         `json:"-"`
	Name        string         `json:"name" binding:"required,safe_string"`
	Description string         `json:"description" binding:"omitempty,max=2000"`
	Category    string         `json:"category" binding:"required,shop_category"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Images      []string       `json:"images" binding:"omitempty,max=10,dive,url"`
	Variants    []VariantInput `json:"variants" binding:"required,min=1,dive"`
}

// UpdateProductCommand replaces the mutable fields of a listing;
// nil fields are left untouched
type UpdateProductCommand struct {
	ProductID   string          `json:"-"`
	SellerID    string          `json:"-"`
	Name        *string         `json:"name" binding:"omitempty,safe_string"`
	Description *string         `json:"description" binding:"omitempty,max=2000"`
	Category    *string         `json:"category" binding:"omitempty,shop_category"`
	Price       *float64        `json:"price" binding:"omitempty,gt=0"`
	Images      *[]string       `json:"images" binding:"omitempty,max=10,dive,url"`
	Variants    *[]VariantInput `json:"variants" binding:"omitempty,min=1,dive"`
	IsActive    *bool           `json:"isActive"`
}

// ListProductsQuery lists a seller's products
type ListProductsQuery struct {
	SellerID string
	Page     int64
	PageSize int64
}

// ReserveItem is one line of a stock reservation
type ReserveItem struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int64
}
