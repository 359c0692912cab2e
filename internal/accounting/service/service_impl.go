package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/db"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/db/option"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	txns    repository.Repository[domain.Transaction]
	methods repository.Repository[domain.PaymentMethod]
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("accounting.service"),
		genID:   p.GenID,
		txns:    repository.ProvideStore[domain.Transaction](p.DB),
		methods: repository.ProvideStore[domain.PaymentMethod](p.DB),
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, actor authctx.Actor, req domain.RecordTransactionRequest) (domain.Transaction, error) {
	if req.Type != domain.TransactionIncome && req.Type != domain.TransactionExpense {
		return domain.Transaction{}, domain.ErrInvalidType
	}
	if !req.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	when := req.TransactionDate
	if when.IsZero() {
		when = time.Now().UTC()
	}

	txn := domain.Transaction{
		ID:              s.genID.Generate(),
		Type:            req.Type,
		Category:        strings.TrimSpace(req.Category),
		Amount:          req.Amount,
		Description:     strings.TrimSpace(req.Description),
		InvoiceID:       req.InvoiceID,
		PurchaseID:      req.PurchaseID,
		PaymentMethodID: req.PaymentMethodID,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		TransactionDate: when,
		CreatedBy:       actor.UserID,
		CreatedAt:       time.Now().UTC(),
	}

	conn := s.db
	if tx != nil {
		conn = tx
	}
	if err := conn.WithContext(ctx).Create(&txn).Error; err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionRequest) (domain.ListTransactionResponse, error) {
	filter := &domain.Transaction{}
	if t := strings.TrimSpace(req.Type); t != "" {
		if t != domain.TransactionIncome && t != domain.TransactionExpense {
			return domain.ListTransactionResponse{}, domain.ErrInvalidType
		}
		filter.Type = t
	}

	opts := []option.QueryOption{option.WithOrder("transaction_date desc")}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}

	items, err := s.txns.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListTransactionResponse{}, err
	}

	txns := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		txns = append(txns, *item)
	}

	return domain.ListTransactionResponse{Transactions: txns}, nil
}

func (s *Service) Summarize(ctx context.Context) (domain.Summary, error) {
	type row struct {
		Type  string
		Total decimal.Decimal
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, r := range rows {
		switch r.Type {
		case domain.TransactionIncome:
			summary.TotalIncome = r.Total
		case domain.TransactionExpense:
			summary.TotalExpense = r.Total
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

func (s *Service) CreatePaymentMethod(ctx context.Context, actor authctx.Actor, req domain.CreatePaymentMethodRequest) (domain.PaymentMethod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.PaymentMethod{}, domain.ErrInvalidMethodName
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now().UTC()
	method := domain.PaymentMethod{
		ID:        s.genID.Generate(),
		Name:      name,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.methods.Create(ctx, &method); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.PaymentMethod{}, domain.ErrDuplicateMethodName
		}
		return domain.PaymentMethod{}, err
	}
	return method, nil
}

func (s *Service) ListPaymentMethods(ctx context.Context) (domain.ListPaymentMethodResponse, error) {
	items, err := s.methods.Find(ctx, &domain.PaymentMethod{}, option.WithOrder("name asc"))
	if err != nil {
		return domain.ListPaymentMethodResponse{}, err
	}

	methods := make([]domain.PaymentMethod, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		methods = append(methods, *item)
	}

	return domain.ListPaymentMethodResponse{PaymentMethods: methods}, nil
}

func (s *Service) UpdatePaymentMethod(ctx context.Context, actor authctx.Actor, id string, req domain.UpdatePaymentMethodRequest) (domain.PaymentMethod, error) {
	method, err := s.findMethod(ctx, id)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.PaymentMethod{}, domain.ErrInvalidMethodName
		}
		method.Name = name
	}
	if req.Enabled != nil {
		method.Enabled = *req.Enabled
	}
	method.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(&method).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.PaymentMethod{}, domain.ErrDuplicateMethodName
		}
		return domain.PaymentMethod{}, err
	}
	return method, nil
}

func (s *Service) DeletePaymentMethod(ctx context.Context, actor authctx.Actor, id string) error {
	method, err := s.findMethod(ctx, id)
	if err != nil {
		return err
	}
	return s.methods.Delete(ctx, method.ID.String())
}

func (s *Service) findMethod(ctx context.Context, id string) (domain.PaymentMethod, error) {
	methodID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || methodID == 0 {
		return domain.PaymentMethod{}, domain.ErrInvalidMethodID
	}

	item, err := s.methods.FindOne(ctx, &domain.PaymentMethod{ID: methodID})
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if item == nil {
		return domain.PaymentMethod{}, domain.ErrMethodNotFound
	}
	return *item, nil
}
