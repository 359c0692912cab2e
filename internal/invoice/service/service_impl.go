package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	accountingdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	companydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/company/domain"
	customerdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/customer/domain"
	inventorydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/domain"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/providers/whatsapp"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/tax"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Products   productdomain.Service
	Customers  customerdomain.Service
	Company    companydomain.Service
	Inventory  inventorydomain.Service
	Accounting accountingdomain.Service
	WhatsApp   whatsapp.Provider
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	products   productdomain.Service
	customers  customerdomain.Service
	company    companydomain.Service
	inventory  inventorydomain.Service
	accounting accountingdomain.Service
	whatsApp   whatsapp.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		products:   p.Products,
		customers:  p.Customers,
		company:    p.Company,
		inventory:  p.Inventory,
		accounting: p.Accounting,
		whatsApp:   p.WhatsApp,
	}
}

func (s *Service) Create(ctx context.Context, actor authctx.Actor, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrNoItems
	}

	sellerState, err := s.company.SellerState(ctx, actor)
	if err != nil || strings.TrimSpace(sellerState) == "" {
		return domain.Invoice{}, domain.ErrSellerStateUnset
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return domain.Invoice{}, err
	}

	buyerState := strings.TrimSpace(customer.State)
	if buyerState == "" {
		buyerState = sellerState
	}
	interstate := tax.Interstate(sellerState, buyerState)

	includeGST := true
	if req.IncludeGST != nil {
		includeGST = *req.IncludeGST
	}

	now := time.Now().UTC()
	invoiceID := s.genID.Generate()

	subtotal := decimal.Zero
	cgst := decimal.Zero
	sgst := decimal.Zero
	igst := decimal.Zero

	items := make([]domain.InvoiceItem, 0, len(req.Items))
	for _, line := range req.Items {
		if !line.Quantity.IsPositive() {
			return domain.Invoice{}, domain.ErrInvalidQuantity
		}

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return domain.Invoice{}, err
		}

		unitPrice := product.SellingPrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		lineTotal := line.Quantity.Mul(unitPrice)

		item := domain.InvoiceItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			ProductID:   product.ID,
			ProductName: product.Name,
			HSNCode:     product.HSNCode,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			GSTRate:     product.GSTRate,
			Total:       lineTotal,
			CreatedAt:   now,
		}
		if includeGST {
			breakdown := tax.CalculateItem(lineTotal, product.GSTRate, interstate)
			item.CGSTAmount = breakdown.CGSTAmount
			item.SGSTAmount = breakdown.SGSTAmount
			item.IGSTAmount = breakdown.IGSTAmount
			cgst = cgst.Add(breakdown.CGSTAmount)
			sgst = sgst.Add(breakdown.SGSTAmount)
			igst = igst.Add(breakdown.IGSTAmount)
		}

		subtotal = subtotal.Add(lineTotal)
		items = append(items, item)
	}

	taxTotal := cgst.Add(sgst).Add(igst)
	invoice := domain.Invoice{
		ID:            invoiceID,
		CustomerID:    customer.ID,
		Status:        domain.StatusDraft,
		PaymentStatus: domain.PaymentUnpaid,
		AmountPaid:    decimal.Zero,
		Subtotal:      subtotal,
		CGST:          cgst,
		SGST:          sgst,
		IGST:          igst,
		Tax:           taxTotal,
		Total:         subtotal.Add(taxTotal),
		IncludeGST:    includeGST,
		IsInterstate:  interstate,
		PlaceOfSupply: strings.TrimSpace(req.PlaceOfSupply),
		PublicToken:   uuid.NewString(),
		Notes:         strings.TrimSpace(req.Notes),
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.DueDate != nil {
		invoice.DueDate = datatypes.Date(*req.DueDate)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		invoice.Number = number

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	invoice.Items = items

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("total", invoice.Total.String()),
		zap.Bool("interstate", interstate),
	)

	if req.Notify {
		s.notify(ctx, invoice, customer)
	}

	return invoice, nil
}

// nextNumber allocates INV-YYYYMM-<seq> inside the creation transaction
// so concurrent creates in the same month cannot collide silently; the
// unique index on number backstops races.
func (s *Service) nextNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", now.Format("200601"))

	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *Service) notify(ctx context.Context, invoice domain.Invoice, customer customerdomain.Customer) {
	if customer.Phone == "" {
		return
	}
	body := fmt.Sprintf("Invoice %s for %s. Amount due: %s.",
		invoice.Number, customer.Name, invoice.Total.StringFixed(2))
	if err := s.whatsApp.Send(ctx, customer.Phone, body); err != nil {
		s.log.Warn("whatsapp notification failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	query := s.db.WithContext(ctx).Model(&domain.Invoice{}).Order("created_at desc")
	if status := strings.TrimSpace(req.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if ps := strings.TrimSpace(req.PaymentStatus); ps != "" {
		query = query.Where("payment_status = ?", ps)
	}
	if cid := strings.TrimSpace(req.CustomerID); cid != "" {
		customerID, err := snowflake.ParseString(cid)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidID
		}
		query = query.Where("customer_id = ?", customerID)
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var invoices []domain.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	return domain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where(&domain.Invoice{ID: invoiceID}).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Invoice{}, domain.ErrNotFound
		}
		return domain.Invoice{}, err
	}

	return invoice, nil
}

func (s *Service) GetByPublicToken(ctx context.Context, token string) (domain.Invoice, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invoice{}, domain.ErrNotFound
	}

	var invoice domain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where(&domain.Invoice{PublicToken: token}).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Invoice{}, domain.ErrNotFound
		}
		return domain.Invoice{}, err
	}

	return invoice, nil
}

func (s *Service) RecordPayment(ctx context.Context, actor authctx.Actor, req domain.RecordPaymentRequest) (domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status == domain.StatusCancelled {
		return domain.Invoice{}, domain.ErrCancelled
	}
	if !req.Amount.IsPositive() {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}

	balance := invoice.Balance()
	if !balance.IsPositive() {
		return domain.Invoice{}, domain.ErrAlreadyPaid
	}
	if req.Amount.GreaterThan(balance) {
		return domain.Invoice{}, domain.ErrOverpayment
	}

	var methodID snowflake.ID
	if mid := strings.TrimSpace(req.PaymentMethodID); mid != "" {
		methodID, err = snowflake.ParseString(mid)
		if err != nil {
			return domain.Invoice{}, accountingdomain.ErrInvalidMethodID
		}
	}

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	newPaid := invoice.AmountPaid.Add(req.Amount)
	newStatus := domain.PaymentStatusFor(newPaid, invoice.Total)
	wasUnpaid := invoice.PaymentStatus == domain.PaymentUnpaid

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := domain.Payment{
			ID:              s.genID.Generate(),
			InvoiceID:       invoice.ID,
			Amount:          req.Amount,
			PaymentMethodID: methodID,
			ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
			Notes:           strings.TrimSpace(req.Notes),
			PaymentDate:     paymentDate,
			CreatedBy:       actor.UserID,
			CreatedAt:       now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"amount_paid":    newPaid,
			"payment_status": newStatus,
			"updated_at":     now,
		}
		if newStatus == domain.PaymentPaid {
			updates["status"] = domain.StatusPaid
			updates["paid_date"] = now
		}
		err := tx.Model(&domain.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(updates).Error
		if err != nil {
			return err
		}

		// Stock leaves the shelf on the first payment only.
		if wasUnpaid && newStatus != domain.PaymentUnpaid {
			if err := s.commitStock(ctx, tx, actor, invoice); err != nil {
				return err
			}
		}

		_, err = s.accounting.Record(ctx, tx, actor, accountingdomain.RecordTransactionRequest{
			Type:            accountingdomain.TransactionIncome,
			Category:        "Sales",
			Amount:          req.Amount,
			Description:     fmt.Sprintf("Payment for invoice %s", invoice.Number),
			InvoiceID:       invoice.ID,
			PaymentMethodID: methodID,
			ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
			TransactionDate: paymentDate,
		})
		return err
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("payment_status", newStatus),
	)

	return s.GetByID(ctx, req.InvoiceID)
}

func (s *Service) MarkPaid(ctx context.Context, actor authctx.Actor, id string) (domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status == domain.StatusCancelled {
		return domain.Invoice{}, domain.ErrCancelled
	}
	if invoice.PaymentStatus == domain.PaymentPaid {
		return invoice, nil
	}

	now := time.Now().UTC()
	balance := invoice.Balance()
	wasUnpaid := invoice.PaymentStatus == domain.PaymentUnpaid

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]any{
				"status":         domain.StatusPaid,
				"payment_status": domain.PaymentPaid,
				"amount_paid":    invoice.Total,
				"paid_date":      now,
				"updated_at":     now,
			}).Error
		if err != nil {
			return err
		}

		if wasUnpaid {
			if err := s.commitStock(ctx, tx, actor, invoice); err != nil {
				return err
			}
		}

		if balance.IsPositive() {
			_, err = s.accounting.Record(ctx, tx, actor, accountingdomain.RecordTransactionRequest{
				Type:            accountingdomain.TransactionIncome,
				Category:        "Sales",
				Amount:          balance,
				Description:     fmt.Sprintf("Payment for invoice %s", invoice.Number),
				InvoiceID:       invoice.ID,
				TransactionDate: now,
			})
		}
		return err
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, actor authctx.Actor, id string, req domain.UpdateStatusRequest) (domain.Invoice, error) {
	status := strings.TrimSpace(req.Status)
	if !domain.ValidStatus(status) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	// Marking paid through the status path shares the payment logic so
	// stock moves at most once regardless of which path ran first.
	if status == domain.StatusPaid {
		return s.MarkPaid(ctx, actor, id)
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	err = s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return domain.Invoice{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor authctx.Actor, id string) error {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Invoice{}, "id = ?", invoice.ID).Error
	})
}

// commitStock decrements catalog quantities and appends one 'out'
// movement per line. Callers guard so this runs at most once per invoice.
func (s *Service) commitStock(ctx context.Context, tx *gorm.DB, actor authctx.Actor, invoice domain.Invoice) error {
	for _, item := range invoice.Items {
		if err := s.products.AdjustQuantity(ctx, tx, item.ProductID, item.Quantity.Neg()); err != nil {
			return err
		}
		_, err := s.inventory.Record(ctx, tx, actor, inventorydomain.RecordMovementRequest{
			ProductID: item.ProductID,
			Type:      inventorydomain.MovementOut,
			Quantity:  item.Quantity,
			Reason:    fmt.Sprintf("Invoice %s", invoice.Number),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
