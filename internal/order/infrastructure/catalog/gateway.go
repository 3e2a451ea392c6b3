package catalog

import (
	"context"

	catalogapp "github.com/marketplace/seller-portal/internal/catalog/application"
	"github.com/marketplace/seller-portal/internal/order/application"
	"github.com/marketplace/seller-portal/internal/order/domain"
)

// Gateway adapts the catalog service to the order context's
// CatalogGateway port
type Gateway struct {
	catalog *catalogapp.CatalogApplicationService
}

// NewGateway creates a new Gateway
func NewGateway(catalog *catalogapp.CatalogApplicationService) *Gateway {
	return &Gateway{catalog: catalog}
}

// Reserve snapshots and decrements stock for the requested items
func (g *Gateway) Reserve(ctx context.Context, items []application.RequestedItem) (*application.Reservation, error) {
	reserveItems := make([]catalogapp.ReserveItem, 0, len(items))
	for _, item := range items {
		reserveItems = append(reserveItems, catalogapp.ReserveItem{
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  int64(item.Quantity),
		})
	}

	reservation, err := g.catalog.Reserve(ctx, reserveItems)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.LineItem, 0, len(reservation.Lines))
	for _, line := range reservation.Lines {
		lines = append(lines, domain.LineItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  int(line.Quantity),
			UnitPrice: line.UnitPrice,
		})
	}

	depleted := make([]application.DepletedVariant, 0, len(reservation.Depleted))
	for _, d := range reservation.Depleted {
		depleted = append(depleted, application.DepletedVariant{
			ProductID: d.ProductID,
			Size:      d.Size,
			Color:     d.Color,
		})
	}

	return &application.Reservation{
		SellerID: reservation.SellerID,
		Items:    lines,
		Depleted: depleted,
	}, nil
}

// ConfirmReservation replays the deferred depletion notifications
// after the order transaction has committed
func (g *Gateway) ConfirmReservation(ctx context.Context, reservation *application.Reservation) {
	if reservation == nil {
		return
	}
	depleted := make([]catalogapp.DepletedVariant, 0, len(reservation.Depleted))
	for _, d := range reservation.Depleted {
		depleted = append(depleted, catalogapp.DepletedVariant{
			ProductID: d.ProductID,
			Size:      d.Size,
			Color:     d.Color,
		})
	}
	g.catalog.ConfirmReservation(ctx, &catalogapp.Reservation{
		SellerID: reservation.SellerID,
		Depleted: depleted,
	})
}
