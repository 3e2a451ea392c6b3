package application

// ShopPhoneInput carries shop contact numbers
type ShopPhoneInput struct {
	Main      string `json:"main" binding:"omitempty,mobile_number"`
	Alternate string `json:"alternate" binding:"omitempty,mobile_number"`
}

// LocationInput carries a GeoJSON point, coordinates [longitude, latitude]
type LocationInput struct {
	Coordinates []float64 `json:"coordinates" binding:"required,len=2"`
}

// ShopInput carries the storefront profile at registration
type ShopInput struct {
	Name        string          `json:"name" binding:"required,safe_string"`
	Address     string          `json:"address" binding:"required"`
	GSTNumber   string          `json:"gstNumber"`
	Phone       *ShopPhoneInput `json:"phoneNumber"`
	Category    string          `json:"category" binding:"required,shop_category"`
	OpenTime    string          `json:"openTime"`
	CloseTime   string          `json:"closeTime"`
	WorkingDays string          `json:"workingDays"`
	Location    *LocationInput  `json:"location"`
	Description string          `json:"description" binding:"omitempty,max=500"`
}

// BankDetailsInput carries the settlement account
type BankDetailsInput struct {
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode" binding:"omitempty,ifsc_code"`
	BankName      string `json:"bankName"`
	AccountType   string `json:"accountType" binding:"omitempty,account_type"`
}

// RegisterSellerCommand creates a new seller account
type RegisterSellerCommand struct {
	FirstName    string            `json:"firstName" binding:"required,safe_string"`
	Email        string            `json:"email" binding:"required,email"`
	MobileNumber string            `json:"mobileNumber" binding:"required,mobile_number"`
	Shop         ShopInput         `json:"shop" binding:"required"`
	BankDetails  *BankDetailsInput `json:"bankDetails"`
}

// ShopUpdateInput carries partial shop changes; nil fields are untouched
type ShopUpdateInput struct {
	Name        *string         `json:"name" binding:"omitempty,safe_string"`
	Address     *string         `json:"address"`
	GSTNumber   *string         `json:"gstNumber"`
	Phone       *ShopPhoneInput `json:"phoneNumber"`
	Category    *string         `json:"category" binding:"omitempty,shop_category"`
	OpenTime    *string         `json:"openTime"`
	CloseTime   *string         `json:"closeTime"`
	WorkingDays *string         `json:"workingDays"`
	Location    *LocationInput  `json:"location"`
	MainImage   *string         `json:"mainImage"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
}

// UpdateProfileCommand merges non-nil fields into the seller profile
type UpdateProfileCommand struct {
	SellerID     string            `json:"-"`
	FirstName    *string           `json:"firstName" binding:"omitempty,safe_string"`
	MobileNumber *string           `json:"mobileNumber" binding:"omitempty,mobile_number"`
	Shop         *ShopUpdateInput  `json:"shop"`
	BankDetails  *BankDetailsInput `json:"bankDetails"`
}

// AddShopImagesCommand appends shop image URLs
type AddShopImagesCommand struct {
	SellerID string   `json:"-"`
	Images   []string `json:"images" binding:"required,min=1,max=10,dive,required,url"`
}
