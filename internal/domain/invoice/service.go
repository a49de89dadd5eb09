package invoice

import (
	"context"
	"fmt"
	"time"

	"onmuhasebe/internal/core/apperror"
	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/tx"
	"onmuhasebe/internal/domain"
	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/registers/cashflow"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/domain/registers/stock"
	"onmuhasebe/pkg/logger"
	"onmuhasebe/pkg/numerator"
)

// Numbering uses the strict strategy: each invoice number comes from
// its own UPDATE..RETURNING, so numbers stay monotonic even under
// concurrent creates. A rolled-back create may still leave a gap.
const numeratorStrategy = numerator.StrategyStrict

// Service owns the invoice lifecycle: create, update, delete and return
// creation. Every operation derives the invoice's financial effects
// (stock, cash, counterparty ledger, income/expense) and applies them in
// one transaction. Nested calls join the caller's transaction, so
// composite flows (order conversion, return creation) stay atomic.
type Service struct {
	repo           Repository
	counterparties CounterpartyReader
	products       ProductReader

	stock    StockLedger
	cash     CashBalance
	ledger   CounterpartyLedger
	cashflow CashflowRegister

	numerator *numerator.Service
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Invoice]

	// Optional, set by the orders package
	orderResetter OrderResetter
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	counterparties CounterpartyReader,
	products ProductReader,
	stockLedger StockLedger,
	cashBalance CashBalance,
	cpLedger CounterpartyLedger,
	cashflowReg CashflowRegister,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:           repo,
		counterparties: counterparties,
		products:       products,
		stock:          stockLedger,
		cash:           cashBalance,
		ledger:         cpLedger,
		cashflow:       cashflowReg,
		numerator:      num,
		txManager:      txManager,
		hooks:          domain.NewHookRegistry[*Invoice](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Invoice] {
	return s.hooks
}

// SetOrderResetter wires the order link reset used on invoice delete.
// Called by the orders package at startup to avoid a package cycle.
func (s *Service) SetOrderResetter(r OrderResetter) {
	s.orderResetter = r
}

func (s *Service) numberConfig(t InvoiceType) numerator.Config {
	prefix := "FAT"
	if isReturn(t) {
		prefix = "IAD"
	}
	return numerator.DefaultConfig(prefix)
}

// Create validates the invoice, computes totals and persists the header,
// lines and every derived financial effect in one transaction.
func (s *Service) Create(ctx context.Context, inv *Invoice) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, inv); err != nil {
		return err
	}

	if err := inv.Validate(); err != nil {
		return err
	}

	cp, err := s.counterparties.GetByID(ctx, inv.CounterpartyID)
	if err != nil {
		return err
	}

	if err := checkPaymentRules(inv, cp); err != nil {
		return err
	}

	if err := s.fillPurchaseCosts(ctx, inv); err != nil {
		return err
	}

	inv.Recalculate()

	if inv.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, s.numberConfig(inv.Type),
			&numerator.Options{Strategy: numeratorStrategy}, inv.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := s.applyStockEffects(ctx, inv, inv.Lines, opApply); err != nil {
			return err
		}

		if err := s.applyCashEffect(ctx, inv, false); err != nil {
			return err
		}

		return s.applyFinancialRecords(ctx, inv, cp)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, inv); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.Number,
		"type", inv.Type,
		"total_gross", inv.TotalGross)

	return nil
}

// Update replaces the invoice's lines and reconciles every derived
// effect against the previously applied state: old stock deltas are
// reversed and re-applied, the cash effect is adjusted by case analysis
// on the payment transition, and secondary records are re-upserted.
func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, inv); err != nil {
		return err
	}

	if err := inv.Validate(); err != nil {
		return err
	}

	old, err := s.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}

	cp, err := s.counterparties.GetByID(ctx, inv.CounterpartyID)
	if err != nil {
		return err
	}

	if err := checkPaymentRules(inv, cp); err != nil {
		return err
	}

	if err := s.fillPurchaseCosts(ctx, inv); err != nil {
		return err
	}

	inv.Recalculate()

	// Number is immutable once assigned
	inv.Number = old.Number
	inv.UpdatedAt = time.Now().UTC()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Undo the old stock effect before the lines disappear
		if err := s.applyStockEffects(ctx, old, old.Lines, opReversal); err != nil {
			return err
		}

		if err := s.repo.DeleteLines(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete old lines: %w", err)
		}

		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := s.applyStockEffects(ctx, inv, inv.Lines, opApply); err != nil {
			return err
		}

		if err := s.reconcileCash(ctx, old, inv); err != nil {
			return err
		}

		return s.applyFinancialRecords(ctx, inv, cp)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, inv); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	logger.Info(ctx, "invoice updated",
		"id", inv.ID,
		"number", inv.Number,
		"total_gross", inv.TotalGross)

	return nil
}

// Delete removes the invoice and every derived record it ever produced,
// reversing all balance and stock deltas exactly.
func (s *Service) Delete(ctx context.Context, invoiceID id.ID) error {
	inv, err := s.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.BeforeDelete, inv); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyCashEffect(ctx, inv, true); err != nil {
			return err
		}

		if err := s.applyStockEffects(ctx, inv, inv.Lines, opDelete); err != nil {
			return err
		}

		if err := s.cashflow.DeleteByInvoice(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete cashflow records: %w", err)
		}
		if err := s.ledger.DeleteByInvoice(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete ledger entries: %w", err)
		}

		if inv.OrderID != nil && s.orderResetter != nil {
			if err := s.orderResetter.ResetToPending(ctx, *inv.OrderID); err != nil {
				return fmt.Errorf("reset source order: %w", err)
			}
		}

		if err := s.repo.DeleteLines(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		if err := s.repo.Delete(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterDelete, inv); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "invoice deleted",
		"id", inv.ID,
		"number", inv.Number)

	return nil
}

// CreateReturn creates the reversing invoice for an original sale or
// purchase. Lines are copied verbatim; the duplicate check and the
// create run in one transaction.
func (s *Service) CreateReturn(ctx context.Context, originalInvoiceID id.ID, date time.Time, notes string) (*Invoice, error) {
	original, err := s.GetByID(ctx, originalInvoiceID)
	if err != nil {
		return nil, err
	}

	returnType, ok := original.Type.ReturnType()
	if !ok {
		return nil, apperror.NewValidation("only sale and purchase invoices can be returned").
			WithDetail("type", string(original.Type))
	}

	ret := New(returnType, original.CounterpartyID)
	ret.Date = date
	ret.Notes = notes
	ret.PaymentType = original.PaymentType
	ret.CashAccountID = original.CashAccountID
	ret.DiscountType = original.DiscountType
	ret.DiscountValue = original.DiscountValue
	ret.OriginalInvoiceID = &original.ID

	for _, line := range original.Lines {
		copied := line
		copied.LineID = id.New()
		copied.InvoiceID = ret.ID
		ret.Lines = append(ret.Lines, copied)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindReturnFor(ctx, original.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewAlreadyReturned(original.ID).
				WithDetail("returnNumber", existing.Number)
		}

		return s.Create(ctx, ret)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return created",
		"id", ret.ID,
		"number", ret.Number,
		"original_id", original.ID)

	return ret, nil
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	inv.Lines = lines

	return inv, nil
}

// GetByNumber retrieves an invoice by its human-readable number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	inv.Lines = lines

	return inv, nil
}

// List retrieves invoice headers with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Invoice], error) {
	return s.repo.List(ctx, filter)
}

// --- effect application ---

// checkPaymentRules rejects forbidden payment/counterparty combinations.
func checkPaymentRules(inv *Invoice, cp *counterparty.Counterparty) error {
	if cp.IsRetail() && inv.PaymentType == PaymentOpenAccount {
		return apperror.NewBusinessRule(apperror.CodeRetailOpenAccount,
			"retail sales cannot use open-account payment").
			WithDetail("counterpartyId", cp.ID)
	}
	return nil
}

// fillPurchaseCosts captures each product's purchase price at invoice
// time for margin reporting. Missing products fail here, before any
// write happens.
func (s *Service) fillPurchaseCosts(ctx context.Context, inv *Invoice) error {
	for i := range inv.Lines {
		p, err := s.products.GetByID(ctx, inv.Lines[i].ProductID)
		if err != nil {
			return err
		}
		if inv.Lines[i].PurchaseCost.IsZero() {
			inv.Lines[i].PurchaseCost = p.PurchasePrice
		}
	}
	return nil
}

// applyStockEffects walks the lines and applies the type-dependent
// signed delta. opReversal and opDelete invert the sign.
func (s *Service) applyStockEffects(ctx context.Context, inv *Invoice, lines []Line, op effectOp) error {
	for _, line := range lines {
		delta := stockDelta(inv.Type, line.Quantity)
		if op != opApply {
			delta = delta.Neg()
		}

		err := s.stock.Apply(ctx, stock.ApplyInput{
			ProductID:       line.ProductID,
			Delta:           delta,
			MovementKind:    movementKind(inv.Type, op),
			SourceKind:      movementSource(inv.Type),
			SourceInvoiceID: inv.ID,
			SourceInvoiceNo: inv.Number,
		})
		if err != nil {
			return fmt.Errorf("apply stock effect: %w", err)
		}
	}
	return nil
}

// applyCashEffect applies (or, with reverse, undoes) the invoice-level
// cash delta. Only immediate payments with an account touch cash.
func (s *Service) applyCashEffect(ctx context.Context, inv *Invoice, reverse bool) error {
	if !inv.PaymentType.IsImmediate() || inv.CashAccountID == nil {
		return nil
	}

	increase, affects := cashDirection(inv.Type)
	if !affects {
		return nil
	}
	if reverse {
		increase = !increase
	}

	if err := s.cash.Apply(ctx, *inv.CashAccountID, inv.TotalGross, increase); err != nil {
		return fmt.Errorf("apply cash effect: %w", err)
	}
	return nil
}

// reconcileCash adjusts the cash effect on update by case analysis on
// the (old, new) payment state rather than blindly re-applying.
func (s *Service) reconcileCash(ctx context.Context, old, updated *Invoice) error {
	oldIncrease, oldAffects := cashDirection(old.Type)
	newIncrease, newAffects := cashDirection(updated.Type)

	oldActive := oldAffects && old.PaymentType.IsImmediate() && old.CashAccountID != nil
	newActive := newAffects && updated.PaymentType.IsImmediate() && updated.CashAccountID != nil

	switch {
	case oldActive && newActive:
		sameAccount := *old.CashAccountID == *updated.CashAccountID
		if sameAccount && old.Type == updated.Type {
			// Apply only the net difference. Its direction follows the
			// invoice type: growth moves the balance further the same
			// way, shrinkage moves it back.
			diff := updated.TotalGross.Sub(old.TotalGross)
			if diff.IsZero() {
				return nil
			}
			increase := newIncrease
			if diff.IsNegative() {
				diff = diff.Neg()
				increase = !increase
			}
			return s.cash.Apply(ctx, *updated.CashAccountID, diff, increase)
		}

		// Account or type switch: reverse old in full, apply new in full
		if err := s.cash.Apply(ctx, *old.CashAccountID, old.TotalGross, !oldIncrease); err != nil {
			return err
		}
		return s.cash.Apply(ctx, *updated.CashAccountID, updated.TotalGross, newIncrease)

	case !oldActive && newActive:
		return s.cash.Apply(ctx, *updated.CashAccountID, updated.TotalGross, newIncrease)

	case oldActive && !newActive:
		return s.cash.Apply(ctx, *old.CashAccountID, old.TotalGross, !oldIncrease)
	}

	return nil
}

// applyFinancialRecords upserts (or clears) the counterparty ledger
// entries and the income/expense record for the invoice's current state.
// Upserts are idempotent, so repeated edits never duplicate rows.
func (s *Service) applyFinancialRecords(ctx context.Context, inv *Invoice, cp *counterparty.Counterparty) error {
	// Retail sales and neutral invoices carry no ledger effect; drop
	// anything a previous state may have produced. The cashflow record
	// below is independent: a cash-settled retail sale still moves money.
	if cp.IsRetail() || inv.PaymentType == PaymentNeutral {
		if err := s.ledger.DeleteByInvoice(ctx, inv.ID); err != nil {
			return fmt.Errorf("clear ledger entries: %w", err)
		}
	} else if kind, ok := ledgerEntryKind(inv.Type); ok {
		err := s.ledger.Upsert(ctx, ledger.UpsertInput{
			CounterpartyType: cp.Type,
			CounterpartyID:   cp.ID,
			Date:             inv.Date,
			EntryKind:        kind,
			Amount:           inv.TotalGross,
			Description:      mainDescription(inv.Type, inv.Number),
			SourceInvoiceID:  inv.ID,
			ReferenceKind:    ledgerReference(inv.Type),
		})
		if err != nil {
			return err
		}

		if inv.PaymentType.IsImmediate() {
			// Closing entry: the settlement nets the main entry to zero
			err := s.ledger.Upsert(ctx, ledger.UpsertInput{
				CounterpartyType: cp.Type,
				CounterpartyID:   cp.ID,
				Date:             inv.Date,
				EntryKind:        kind.Opposite(),
				Amount:           inv.TotalGross,
				Description:      settlementDescription(inv.Type, inv.Number),
				SourceInvoiceID:  inv.ID,
				ReferenceKind:    ledger.RefCashSettlement,
			})
			if err != nil {
				return err
			}
		} else {
			if err := s.ledger.DeleteByInvoice(ctx, inv.ID, ledger.RefCashSettlement); err != nil {
				return fmt.Errorf("clear settlement entry: %w", err)
			}
		}
	}

	kind, ok := cashflowKind(inv.Type)
	if ok && inv.PaymentType.IsImmediate() && inv.CashAccountID != nil {
		return s.cashflow.Upsert(ctx, cashflow.UpsertInput{
			Date:            inv.Date,
			Kind:            kind,
			Amount:          inv.TotalGross,
			Description:     mainDescription(inv.Type, inv.Number),
			SourceKind:      cashflowSource(inv.Type),
			SourceInvoiceID: inv.ID,
			CashAccountID:   *inv.CashAccountID,
		})
	}

	if err := s.cashflow.DeleteByInvoice(ctx, inv.ID); err != nil {
		return fmt.Errorf("clear cashflow records: %w", err)
	}
	return nil
}
