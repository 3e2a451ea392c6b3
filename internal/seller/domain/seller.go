package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSellerNotFound      = errors.New("seller not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateMobile     = errors.New("mobile number already registered")
	ErrSellerInactive      = errors.New("seller account is inactive")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidCategory     = errors.New("invalid shop category")
	ErrInvalidAccountType  = errors.New("invalid bank account type")
	ErrTooManyShopImages   = errors.New("cannot have more than 10 shop images")
	ErrDescriptionTooLong  = errors.New("shop description cannot exceed 500 characters")
	ErrInvalidCoordinates  = errors.New("location coordinates must be [longitude, latitude]")
)

const (
	maxShopImages        = 10
	maxDescriptionLength = 500
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ShopCategory is the merchandise line a shop sells
type ShopCategory string

const (
	CategoryMen   ShopCategory = "Men"
	CategoryWomen ShopCategory = "Women"
	CategoryKids  ShopCategory = "Kids"
)

// IsValid checks if the category is a known value
func (c ShopCategory) IsValid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryKids:
		return true
	}
	return false
}

// AccountType identifies the kind of settlement bank account
type AccountType string

const (
	AccountSavings  AccountType = "savings"
	AccountCurrent  AccountType = "current"
	AccountBusiness AccountType = "business"
)

// IsValid checks if the account type is a known value. Empty is
// allowed because bank details are optional at registration.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountSavings, AccountCurrent, AccountBusiness, "":
		return true
	}
	return false
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude]
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint creates a GeoJSON point at the given coordinates
func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

// ShopPhone holds the shop's contact numbers
type ShopPhone struct {
	Main      string `bson:"main" json:"main"`
	Alternate string `bson:"alternate" json:"alternate"`
}

// Shop is the storefront profile embedded in a seller
type Shop struct {
	Name        string       `bson:"name" json:"name"`
	Address     string       `bson:"address" json:"address"`
	GSTNumber   string       `bson:"gstNumber" json:"gstNumber"`
	Phone       ShopPhone    `bson:"phoneNumber" json:"phoneNumber"`
	Category    ShopCategory `bson:"category" json:"category"`
	OpenTime    string       `bson:"openTime" json:"openTime"`
	CloseTime   string       `bson:"closeTime" json:"closeTime"`
	WorkingDays string       `bson:"workingDays" json:"workingDays"`
	Location    GeoPoint     `bson:"location" json:"location"`
	Images      []string     `bson:"images" json:"images"`
	MainImage   string       `bson:"mainImage" json:"mainImage"`
	Description string       `bson:"description" json:"description"`
}

// BankDetails holds the seller's settlement account
type BankDetails struct {
	AccountNumber string      `bson:"accountNumber" json:"accountNumber"`
	IFSCCode      string      `bson:"ifscCode" json:"ifscCode"`
	BankName      string      `bson:"bankName" json:"bankName"`
	AccountType   AccountType `bson:"accountType" json:"accountType"`
}

// Seller is the aggregate root for a marketplace seller account
type Seller struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SellerID     string             `bson:"sellerId" json:"sellerId"`
	FirstName    string             `bson:"firstName" json:"firstName"`
	Email        string             `bson:"email" json:"email"`
	MobileNumber string             `bson:"mobileNumber" json:"mobileNumber"`
	Shop         Shop               `bson:"shop" json:"shop"`
	BankDetails  BankDetails        `bson:"bankDetails" json:"bankDetails"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// GenerateSellerID creates a new seller identifier
func GenerateSellerID() string {
	return "SLR-" + uuid.New().String()[:8]
}

// NewSeller registers a new seller account. Email is normalized to
// lowercase; new accounts start active and unverified.
func NewSeller(firstName, email, mobileNumber string, shop Shop, bank BankDetails) (*Seller, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if err := validateShop(&shop); err != nil {
		return nil, err
	}
	if !bank.AccountType.IsValid() {
		return nil, ErrInvalidAccountType
	}
	bank.IFSCCode = strings.ToUpper(strings.TrimSpace(bank.IFSCCode))

	now := time.Now().UTC()
	seller := &Seller{
		SellerID:     GenerateSellerID(),
		FirstName:    strings.TrimSpace(firstName),
		Email:        email,
		MobileNumber: strings.TrimSpace(mobileNumber),
		Shop:         shop,
		BankDetails:  bank,
		IsVerified:   false,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	seller.addDomainEvent(&SellerRegisteredEvent{
		SellerID:     seller.SellerID,
		Email:        seller.Email,
		ShopName:     seller.Shop.Name,
		ShopCategory: string(seller.Shop.Category),
		RegisteredAt: now,
	})

	return seller, nil
}

func validateShop(shop *Shop) error {
	if !shop.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(shop.Images) > maxShopImages {
		return ErrTooManyShopImages
	}
	if len(shop.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if shop.Location.Type == "" {
		shop.Location = NewGeoPoint(0, 0)
	}
	if len(shop.Location.Coordinates) != 2 {
		return ErrInvalidCoordinates
	}
	if shop.OpenTime == "" {
		shop.OpenTime = "09:00"
	}
	if shop.CloseTime == "" {
		shop.CloseTime = "18:00"
	}
	if shop.WorkingDays == "" {
		shop.WorkingDays = "monday-saturday"
	}
	return nil
}

// ProfileUpdate carries the fields a seller may change after
// registration. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName    *string
	MobileNumber *string
	Shop         *ShopUpdate
	BankDetails  *BankDetails
}

// ShopUpdate carries partial shop profile changes
type ShopUpdate struct {
	Name        *string
	Address     *string
	GSTNumber   *string
	Phone       *ShopPhone
	Category    *ShopCategory
	OpenTime    *string
	CloseTime   *string
	WorkingDays *string
	Location    *GeoPoint
	MainImage   *string
	Description *string
}

// ApplyUpdate merges non-nil fields of the update into the seller
func (s *Seller) ApplyUpdate(update ProfileUpdate) error {
	if update.FirstName != nil {
		s.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.MobileNumber != nil {
		s.MobileNumber = strings.TrimSpace(*update.MobileNumber)
	}
	if update.Shop != nil {
		if err := s.applyShopUpdate(update.Shop); err != nil {
			return err
		}
	}
	if update.BankDetails != nil {
		bank := *update.BankDetails
		if !bank.AccountType.IsValid() {
			return ErrInvalidAccountType
		}
		bank.IFSCCode = strings.ToUpper(strings.TrimSpace(bank.IFSCCode))
		s.BankDetails = bank
	}
	s.UpdatedAt = time.Now().UTC()

	s.addDomainEvent(&SellerProfileUpdatedEvent{
		SellerID:  s.SellerID,
		UpdatedAt: s.UpdatedAt,
	})
	return nil
}

func (s *Seller) applyShopUpdate(update *ShopUpdate) error {
	if update.Category != nil {
		if !update.Category.IsValid() {
			return ErrInvalidCategory
		}
		s.Shop.Category = *update.Category
	}
	if update.Description != nil {
		if len(*update.Description) > maxDescriptionLength {
			return ErrDescriptionTooLong
		}
		s.Shop.Description = *update.Description
	}
	if update.Location != nil {
		if len(update.Location.Coordinates) != 2 {
			return ErrInvalidCoordinates
		}
		s.Shop.Location = *update.Location
	}
	if update.Name != nil {
		s.Shop.Name = strings.TrimSpace(*update.Name)
	}
	if update.Address != nil {
		s.Shop.Address = strings.TrimSpace(*update.Address)
	}
	if update.GSTNumber != nil {
		s.Shop.GSTNumber = strings.TrimSpace(*update.GSTNumber)
	}
	if update.Phone != nil {
		s.Shop.Phone = *update.Phone
	}
	if update.OpenTime != nil {
		s.Shop.OpenTime = *update.OpenTime
	}
	if update.CloseTime != nil {
		s.Shop.CloseTime = *update.CloseTime
	}
	if update.WorkingDays != nil {
		s.Shop.WorkingDays = *update.WorkingDays
	}
	return nil
}

// AddShopImages appends image URLs, enforcing the image cap. The
// first image ever added becomes the main image if none is set.
func (s *Seller) AddShopImages(urls []string) error {
	if len(s.Shop.Images)+len(urls) > maxShopImages {
		return ErrTooManyShopImages
	}
	s.Shop.Images = append(s.Shop.Images, urls...)
	if s.Shop.MainImage == "" && len(s.Shop.Images) > 0 {
		s.Shop.MainImage = s.Shop.Images[0]
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MainShopImage returns the main image, falling back to the first
// uploaded image
func (s *Seller) MainShopImage() string {
	if s.Shop.MainImage != "" {
		return s.Shop.MainImage
	}
	if len(s.Shop.Images) > 0 {
		return s.Shop.Images[0]
	}
	return ""
}

// Deactivate marks the account inactive. Inactive sellers fail
// authentication on every portal route.
func (s *Seller) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now().UTC()
}

// Status derives the display status of the shop
func (s *Seller) Status() string {
	if !s.IsActive {
		return "inactive"
	}
	if !s.IsVerified {
		return "pending"
	}
	return "active"
}

// DomainEvents returns events raised since the last clear
func (s *Seller) DomainEvents() []DomainEvent {
	return s.domainEvents
}

// ClearDomainEvents clears accumulated events
func (s *Seller) ClearDomainEvents() {
	s.domainEvents = nil
}

func (s *Seller) addDomainEvent(event DomainEvent) {
	s.domainEvents = append(s.domainEvents, event)
}
