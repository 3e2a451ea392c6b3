package application

import (
	"time"

	"github.com/marketplace/seller-portal/internal/seller/domain"
)

// SellerDTO is the API representation of a seller account
type SellerDTO struct {
	SellerID     string         `json:"sellerId"`
	FirstName    string         `json:"firstName"`
	Email        string         `json:"email"`
	MobileNumber string         `json:"mobileNumber"`
	Shop         ShopDTO        `json:"shop"`
	BankDetails  BankDetailsDTO `json:"bankDetails"`
	IsVerified   bool           `json:"isVerified"`
	IsActive     bool           `json:"isActive"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ShopDTO is the API representation of a shop profile
type ShopDTO struct {
	Name        string           `json:"name"`
	Address     string           `json:"address"`
	GSTNumber   string           `json:"gstNumber"`
	Phone       domain.ShopPhone `json:"phoneNumber"`
	Category    string           `json:"category"`
	OpenTime    string           `json:"openTime"`
	CloseTime   string           `json:"closeTime"`
	WorkingDays string           `json:"workingDays"`
	Location    domain.GeoPoint  `json:"location"`
	Images      []string         `json:"images"`
	MainImage   string           `json:"mainImage"`
	Description string           `json:"description"`
}

// BankDetailsDTO is the API representation of bank details
type BankDetailsDTO struct {
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	BankName      string `json:"bankName"`
	AccountType   string `json:"accountType"`
}

// ToSellerDTO maps a domain seller to its API representation
func ToSellerDTO(seller *domain.Seller) *SellerDTO {
	images := seller.Shop.Images
	if images == nil {
		images = []string{}
	}
	return &SellerDTO{
		SellerID:     seller.SellerID,
		FirstName:    seller.FirstName,
		Email:        seller.Email,
		MobileNumber: seller.MobileNumber,
		Shop: ShopDTO{
			Name:        seller.Shop.Name,
			Address:     seller.Shop.Address,
			GSTNumber:   seller.Shop.GSTNumber,
			Phone:       seller.Shop.Phone,
			Category:    string(seller.Shop.Category),
			OpenTime:    seller.Shop.OpenTime,
			CloseTime:   seller.Shop.CloseTime,
			WorkingDays: seller.Shop.WorkingDays,
			Location:    seller.Shop.Location,
			Images:      images,
			MainImage:   seller.MainShopImage(),
			Description: seller.Shop.Description,
		},
		BankDetails: BankDetailsDTO{
			AccountNumber: seller.BankDetails.AccountNumber,
			IFSCCode:      seller.BankDetails.IFSCCode,
			BankName:      seller.BankDetails.BankName,
			AccountType:   string(seller.BankDetails.AccountType),
		},
		IsVerified: seller.IsVerified,
		IsActive:   seller.IsActive,
		Status:     seller.Status(),
		CreatedAt:  seller.CreatedAt,
		UpdatedAt:  seller.UpdatedAt,
	}
}
