package domain

import "time"

// DomainEvent is implemented by all seller domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// SellerRegisteredEvent is raised when a new seller account is created
type SellerRegisteredEvent struct {
	SellerID     string    `json:"sellerId"`
	Email        string    `json:"email"`
	ShopName     string    `json:"shopName"`
	ShopCategory string    `json:"shopCategory"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func (e *SellerRegisteredEvent) EventType() string     { return "seller.registered" }
func (e *SellerRegisteredEvent) OccurredAt() time.Time { return e.RegisteredAt }

// SellerProfileUpdatedEvent is raised when profile fields change
type SellerProfileUpdatedEvent struct {
	SellerID  string    `json:"sellerId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *SellerProfileUpdatedEvent) EventType() string     { return "seller.profile_updated" }
func (e *SellerProfileUpdatedEvent) OccurredAt() time.Time { return e.UpdatedAt }
