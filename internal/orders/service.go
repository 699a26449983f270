package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/geolex-tech/storefront-backend/pkg/db"
	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPaymentMethod is the only payment option the storefront offers.
const DefaultPaymentMethod = "Cash on Delivery"

// CreateLine is one cart line at submission time.
type CreateLine struct {
	ProductID *uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CreateInput carries everything needed to place an order. Contact fields
// are denormalized onto the order row.
type CreateInput struct {
	UserID         uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	AlternatePhone string
	Address        string
	City           string
	PostalCode     string
	Notes          string
	PaymentMethod  string
	Lines          []CreateLine
}

// Service exposes order placement and customer order history.
type Service interface {
	CreateOrder(ctx context.Context, input CreateInput) (*Summary, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*Summary, error)
	CanEditAccountDetails(ctx context.Context, userID uuid.UUID) (bool, error)
	PendingCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	db   *dbpkg.Client
	repo *Repository
}

// NewService constructs an orders service instance.
func NewService(client *dbpkg.Client, repo *Repository) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{db: client, repo: repo}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateInput) (*Summary, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot place an empty order")
	}

	order := orderFromInput(input)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
	}

	summary := SummaryFrom(*order)
	return &summary, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, SummaryFrom(row))
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*Summary, error) {
	row, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	summary := SummaryFrom(*row)
	return &summary, nil
}

// CanEditAccountDetails is true only when every order the customer has
// placed is completed, delivered, or cancelled. No orders counts as
// editable.
func (s *service) CanEditAccountDetails(ctx context.Context, userID uuid.UUID) (bool, error) {
	open, err := s.repo.CountOpenByUser(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking open orders")
	}
	return open == 0, nil
}

func (s *service) PendingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	open, err := s.repo.CountOpenByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting open orders")
	}
	return int(open), nil
}

func orderFromInput(input CreateInput) *models.WebsiteOrder {
	payment := strings.TrimSpace(input.PaymentMethod)
	if payment == "" {
		payment = DefaultPaymentMethod
	}

	items := make([]models.WebsiteOrderItem, 0, len(input.Lines))
	total := decimal.Zero
	for _, line := range input.Lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.WebsiteOrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
	}

	return &models.WebsiteOrder{
		ID:             uuid.New(),
		OrderNumber:    NewOrderNumber(time.Now().UTC()),
		UserID:         input.UserID,
		Status:         models.OrderStatusPending,
		PaymentMethod:  payment,
		TotalAmount:    total,
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		AlternatePhone: optional(input.AlternatePhone),
		Address:        strings.TrimSpace(input.Address),
		City:           strings.TrimSpace(input.City),
		PostalCode:     strings.TrimSpace(input.PostalCode),
		Notes:          optional(input.Notes),
		Items:          items,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
