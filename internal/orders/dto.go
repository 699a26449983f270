package orders

import (
	"time"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineView is one order item as shown in the order history.
type LineView struct {
	ProductID *uuid.UUID      `json:"productId,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Summary is the customer-facing view of an order.
type Summary struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	PostalCode    string          `json:"postalCode"`
	Notes         string          `json:"notes,omitempty"`
	Items         []LineView      `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SummaryFrom flattens a persisted order into the API shape.
func SummaryFrom(row models.WebsiteOrder) Summary {
	items := make([]LineView, 0, len(row.Items))
	for _, item := range row.Items {
		items = append(items, LineView{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}

	notes := ""
	if row.Notes != nil {
		notes = *row.Notes
	}

	return Summary{
		ID:            row.ID,
		OrderNumber:   row.OrderNumber,
		Status:        row.Status,
		PaymentMethod: row.PaymentMethod,
		TotalAmount:   row.TotalAmount,
		Address:       row.Address,
		City:          row.City,
		PostalCode:    row.PostalCode,
		Notes:         notes,
		Items:         items,
		CreatedAt:     row.CreatedAt,
	}
}
