package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountingdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	companydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/company/domain"
	inventorydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	invoicedomain "github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/domain"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/purchase/domain"
	supplierdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/domain"
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
	Suppliers  supplierdomain.Service
	Company    companydomain.Service
	Inventory  inventorydomain.Service
	Accounting accountingdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	products   productdomain.Service
	suppliers  supplierdomain.Service
	company    companydomain.Service
	inventory  inventorydomain.Service
	accounting accountingdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("purchase.service"),
		genID:      p.GenID,
		products:   p.Products,
		suppliers:  p.Suppliers,
		company:    p.Company,
		inventory:  p.Inventory,
		accounting: p.Accounting,
	}
}

func (s *Service) Create(ctx context.Context, actor authctx.Actor, req domain.CreatePurchaseRequest) (domain.Purchase, error) {
	if len(req.Items) == 0 {
		return domain.Purchase{}, domain.ErrNoItems
	}

	sellerState, err := s.company.SellerState(ctx, actor)
	if err != nil || strings.TrimSpace(sellerState) == "" {
		return domain.Purchase{}, domain.ErrSellerStateUnset
	}

	supplier, err := s.suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		return domain.Purchase{}, err
	}

	interstate := tax.Interstate(sellerState, supplier.State)

	for _, line := range req.Items {
		if !line.Quantity.IsPositive() {
			return domain.Purchase{}, domain.ErrInvalidQuantity
		}
	}

	now := time.Now().UTC()
	purchaseID := s.genID.Generate()

	purchase := domain.Purchase{
		ID:            purchaseID,
		SupplierID:    supplier.ID,
		Status:        domain.StatusOrdered,
		PaymentStatus: invoicedomain.PaymentUnpaid,
		AmountPaid:    decimal.Zero,
		IsInterstate:  interstate,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.OrderDate != nil {
		purchase.OrderDate = datatypes.Date(*req.OrderDate)
	} else {
		purchase.OrderDate = datatypes.Date(now)
	}
	if req.ExpectedDate != nil {
		purchase.ExpectedDate = datatypes.Date(*req.ExpectedDate)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		purchase.Number = number

		subtotal := decimal.Zero
		cgst := decimal.Zero
		sgst := decimal.Zero
		igst := decimal.Zero

		items := make([]domain.PurchaseItem, 0, len(req.Items))
		for _, line := range req.Items {
			product, err := s.products.EnsureBySKU(ctx, tx, actor, productdomain.EnsureBySKURequest{
				SKU:       line.SKU,
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				GSTRate:   line.GSTRate,
			})
			if err != nil {
				return err
			}

			rate := line.GSTRate
			if rate.IsZero() {
				rate = product.GSTRate
			}

			lineTotal := line.Quantity.Mul(line.UnitPrice)
			breakdown := tax.CalculateItem(lineTotal, rate, interstate)

			items = append(items, domain.PurchaseItem{
				ID:          s.genID.Generate(),
				PurchaseID:  purchaseID,
				ProductID:   product.ID,
				SKU:         product.SKU,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				GSTRate:     rate,
				CGSTRate:    breakdown.CGSTRate,
				SGSTRate:    breakdown.SGSTRate,
				IGSTRate:    breakdown.IGSTRate,
				CGSTAmount:  breakdown.CGSTAmount,
				SGSTAmount:  breakdown.SGSTAmount,
				IGSTAmount:  breakdown.IGSTAmount,
				Total:       lineTotal,
				CreatedAt:   now,
			})

			subtotal = subtotal.Add(lineTotal)
			cgst = cgst.Add(breakdown.CGSTAmount)
			sgst = sgst.Add(breakdown.SGSTAmount)
			igst = igst.Add(breakdown.IGSTAmount)
		}

		taxTotal := cgst.Add(sgst).Add(igst)
		purchase.Subtotal = subtotal
		purchase.CGST = cgst
		purchase.SGST = sgst
		purchase.IGST = igst
		purchase.Tax = taxTotal
		purchase.Total = subtotal.Add(taxTotal)
		purchase.Items = items

		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	s.log.Info("purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("number", purchase.Number),
		zap.String("total", purchase.Total.String()),
	)

	return purchase, nil
}

func (s *Service) nextNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("PO-%s-", now.Format("200601"))

	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (s *Service) List(ctx context.Context, req domain.ListPurchaseRequest) (domain.ListPurchaseResponse, error) {
	query := s.db.WithContext(ctx).Model(&domain.Purchase{}).Order("created_at desc")
	if status := strings.TrimSpace(req.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if sid := strings.TrimSpace(req.SupplierID); sid != "" {
		supplierID, err := snowflake.ParseString(sid)
		if err != nil {
			return domain.ListPurchaseResponse{}, domain.ErrInvalidID
		}
		query = query.Where("supplier_id = ?", supplierID)
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}

	var purchases []domain.Purchase
	if err := query.Find(&purchases).Error; err != nil {
		return domain.ListPurchaseResponse{}, err
	}

	return domain.ListPurchaseResponse{Purchases: purchases}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Purchase, error) {
	purchaseID, err := parseID(id)
	if err != nil {
		return domain.Purchase{}, err
	}

	var purchase domain.Purchase
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where(&domain.Purchase{ID: purchaseID}).
		First(&purchase).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Purchase{}, domain.ErrNotFound
		}
		return domain.Purchase{}, err
	}

	return purchase, nil
}

// MarkReceived moves stock in exactly once. Repeat calls fail the status
// guard instead of double-counting inventory.
func (s *Service) MarkReceived(ctx context.Context, actor authctx.Actor, id string) (domain.Purchase, error) {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Purchase{}, err
	}
	switch purchase.Status {
	case domain.StatusReceived:
		return domain.Purchase{}, domain.ErrAlreadyReceived
	case domain.StatusCancelled:
		return domain.Purchase{}, domain.ErrCancelled
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, domain.StatusOrdered).
			Updates(map[string]any{
				"status":        domain.StatusReceived,
				"received_date": now,
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyReceived
		}

		for _, item := range purchase.Items {
			if err := s.products.AdjustQuantity(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			_, err := s.inventory.Record(ctx, tx, actor, inventorydomain.RecordMovementRequest{
				ProductID: item.ProductID,
				Type:      inventorydomain.MovementIn,
				Quantity:  item.Quantity,
				Reason:    fmt.Sprintf("Purchase %s received", purchase.Number),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	s.log.Info("purchase received",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("number", purchase.Number),
	)

	return s.GetByID(ctx, id)
}

func (s *Service) RecordPayment(ctx context.Context, actor authctx.Actor, req domain.RecordPaymentRequest) (domain.Purchase, error) {
	purchase, err := s.GetByID(ctx, req.PurchaseID)
	if err != nil {
		return domain.Purchase{}, err
	}
	if purchase.Status == domain.StatusCancelled {
		return domain.Purchase{}, domain.ErrCancelled
	}
	if !req.Amount.IsPositive() {
		return domain.Purchase{}, domain.ErrInvalidAmount
	}

	balance := purchase.Balance()
	if !balance.IsPositive() {
		return domain.Purchase{}, domain.ErrAlreadyPaid
	}
	if req.Amount.GreaterThan(balance) {
		return domain.Purchase{}, domain.ErrOverpayment
	}

	var methodID snowflake.ID
	if mid := strings.TrimSpace(req.PaymentMethodID); mid != "" {
		methodID, err = snowflake.ParseString(mid)
		if err != nil {
			return domain.Purchase{}, accountingdomain.ErrInvalidMethodID
		}
	}

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	newPaid := purchase.AmountPaid.Add(req.Amount)
	newStatus := invoicedomain.PaymentStatusFor(newPaid, purchase.Total)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := domain.PurchasePayment{
			ID:              s.genID.Generate(),
			PurchaseID:      purchase.ID,
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

		err := tx.Model(&domain.Purchase{}).
			Where("id = ?", purchase.ID).
			Updates(map[string]any{
				"amount_paid":    newPaid,
				"payment_status": newStatus,
				"updated_at":     now,
			}).Error
		if err != nil {
			return err
		}

		_, err = s.accounting.Record(ctx, tx, actor, accountingdomain.RecordTransactionRequest{
			Type:            accountingdomain.TransactionExpense,
			Category:        "Inventory Purchase",
			Amount:          req.Amount,
			Description:     fmt.Sprintf("Payment for purchase %s", purchase.Number),
			PurchaseID:      purchase.ID,
			PaymentMethodID: methodID,
			ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
			TransactionDate: paymentDate,
		})
		return err
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	s.log.Info("purchase payment recorded",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("payment_status", newStatus),
	)

	return s.GetByID(ctx, req.PurchaseID)
}

func (s *Service) Delete(ctx context.Context, actor authctx.Actor, id string) error {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&domain.PurchaseItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&domain.PurchasePayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Purchase{}, "id = ?", purchase.ID).Error
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
