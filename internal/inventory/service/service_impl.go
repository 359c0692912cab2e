package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/db/option"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Products productdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	products productdomain.Service
	repo     repository.Repository[domain.Movement]
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("inventory.service"),
		genID:    p.GenID,
		products: p.Products,
		repo:     repository.ProvideStore[domain.Movement](p.DB),
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, actor authctx.Actor, req domain.RecordMovementRequest) (domain.Movement, error) {
	if req.ProductID == 0 {
		return domain.Movement{}, domain.ErrInvalidProduct
	}
	if !domain.ValidType(req.Type) {
		return domain.Movement{}, domain.ErrInvalidType
	}
	if !req.Quantity.IsPositive() {
		return domain.Movement{}, domain.ErrInvalidQuantity
	}

	movement := domain.Movement{
		ID:        s.genID.Generate(),
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    strings.TrimSpace(req.Reason),
		CreatedBy: actor.UserID,
		CreatedAt: time.Now().UTC(),
	}

	if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
		return domain.Movement{}, err
	}
	return movement, nil
}

func (s *Service) Adjust(ctx context.Context, actor authctx.Actor, req domain.AdjustRequest) (domain.Movement, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil || productID == 0 {
		return domain.Movement{}, domain.ErrInvalidProduct
	}
	if req.Delta.IsZero() {
		return domain.Movement{}, domain.ErrInvalidQuantity
	}

	var movement domain.Movement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.products.AdjustQuantity(ctx, tx, productID, req.Delta); err != nil {
			return err
		}
		movement, err = s.Record(ctx, tx, actor, domain.RecordMovementRequest{
			ProductID: productID,
			Type:      domain.MovementAdjustment,
			Quantity:  req.Delta.Abs(),
			Reason:    req.Reason,
		})
		return err
	})
	if err != nil {
		return domain.Movement{}, err
	}

	s.log.Info("manual stock adjustment",
		zap.String("product_id", productID.String()),
		zap.String("delta", req.Delta.String()),
	)
	return movement, nil
}

func (s *Service) List(ctx context.Context, req domain.ListMovementRequest) (domain.ListMovementResponse, error) {
	filter := &domain.Movement{}
	if pid := strings.TrimSpace(req.ProductID); pid != "" {
		productID, err := snowflake.ParseString(pid)
		if err != nil {
			return domain.ListMovementResponse{}, domain.ErrInvalidProduct
		}
		filter.ProductID = productID
	}

	opts := []option.QueryOption{option.WithOrder("created_at desc")}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListMovementResponse{}, err
	}

	movements := make([]domain.Movement, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		movements = append(movements, *item)
	}

	return domain.ListMovementResponse{Movements: movements}, nil
}
