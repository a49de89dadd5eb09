package orders

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/tx"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/invoice"
	"onmuhasebe/pkg/logger"
	"onmuhasebe/pkg/numerator"
)

// Orders tolerate numbering gaps, so the faster cached strategy is used.
const numeratorStrategy = numerator.StrategyCached

// Service provides sales order operations, including conversion of a
// pending order into an invoice within one transaction.
type Service struct {
	repo      Repository
	invoices  *invoice.Service
	numerator *numerator.Service
	txManager tx.Manager
}

// NewService creates a new orders service and wires the invoice-delete
// link reset back into the invoice service.
func NewService(repo Repository, invoices *invoice.Service, num *numerator.Service, txManager tx.Manager) *Service {
	s := &Service{
		repo:      repo,
		invoices:  invoices,
		numerator: num,
		txManager: txManager,
	}
	invoices.SetOrderResetter(s)
	return s
}

// Create validates and persists a new order with its lines.
func (s *Service) Create(ctx context.Context, o *Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SIP"),
			&numerator.Options{Strategy: numeratorStrategy, RangeSize: 50}, o.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		o.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.repo.SaveLines(ctx, o.ID, o.Lines)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order created", "id", o.ID, "number", o.Number)
	return nil
}

// GetByID retrieves an order with its lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	o.Lines = lines

	return o, nil
}

// List retrieves orders with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Order], error) {
	return s.repo.List(ctx, filter)
}

// ConvertInput carries the invoicing parameters for a conversion.
type ConvertInput struct {
	PaymentType   invoice.PaymentType
	CashAccountID *id.ID
	DueDate       *time.Time
	Notes         string
}

// ConvertToInvoice turns a pending order into a sale invoice. The
// invoice create and the order status change commit atomically: the
// invoice service joins the transaction opened here.
func (s *Service) ConvertToInvoice(ctx context.Context, orderID id.ID, in ConvertInput) (*invoice.Invoice, error) {
	o, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch o.Status {
	case StatusInvoiced:
		return nil, apperror.NewBusinessRule(apperror.CodeOrderConverted,
			"order has already been converted").
			WithDetail("orderId", o.ID).
			WithDetail("invoiceId", o.InvoiceID)
	case StatusCancelled:
		return nil, apperror.NewValidation("cancelled order cannot be converted").
			WithDetail("orderId", o.ID)
	}

	inv := invoice.New(invoice.TypeSale, o.CounterpartyID)
	inv.PaymentType = in.PaymentType
	inv.CashAccountID = in.CashAccountID
	inv.DueDate = in.DueDate
	inv.Notes = in.Notes
	inv.OrderID = &o.ID

	for _, line := range o.Lines {
		l := inv.AddLine(line.ProductID, line.Quantity, line.UnitPrice, line.VATRate)
		l.Discount1Pct = line.Discount1Pct
		l.Discount2Pct = line.Discount2Pct
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}

		o.Status = StatusInvoiced
		o.InvoiceID = &inv.ID
		o.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order converted to invoice",
		"order_id", o.ID,
		"invoice_id", inv.ID,
		"invoice_number", inv.Number)

	return inv, nil
}

// ResetToPending clears the order's invoice link and returns it to the
// pending state. Called by the invoice service when a converted
// invoice is deleted.
func (s *Service) ResetToPending(ctx context.Context, orderID id.ID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	o.Status = StatusPending
	o.InvoiceID = nil
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return fmt.Errorf("reset order: %w", err)
	}

	logger.Info(ctx, "order reset to pending", "order_id", orderID)
	return nil
}

// Cancel marks a pending order as cancelled.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if o.Status == StatusInvoiced {
		return apperror.NewConflict("invoiced order cannot be cancelled").
			WithDetail("orderId", o.ID)
	}

	o.Status = StatusCancelled
	o.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, o)
}
