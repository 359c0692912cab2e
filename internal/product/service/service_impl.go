package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
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
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Product]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Product](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, actor authctx.Actor, req domain.CreateProductRequest) (domain.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return domain.Product{}, domain.ErrInvalidSKU
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	invType := strings.TrimSpace(req.InventoryType)
	if invType == "" {
		invType = domain.InventoryTypeFinishedGood
	}
	if invType != domain.InventoryTypeFinishedGood && invType != domain.InventoryTypeRawMaterial {
		return domain.Product{}, domain.ErrInvalidInvType
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:            s.genID.Generate(),
		SKU:           sku,
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Unit:          strings.TrimSpace(req.Unit),
		HSNCode:       strings.TrimSpace(req.HSNCode),
		GSTRate:       req.GSTRate,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		Quantity:      req.Quantity,
		ReorderLevel:  req.ReorderLevel,
		InventoryType: invType,
		Barcode:       strings.TrimSpace(req.Barcode),
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Product{}, domain.ErrDuplicateSKU
		}
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductRequest) (domain.ListProductResponse, error) {
	opts := []option.QueryOption{option.WithOrder("name asc")}
	if req.LowStock {
		opts = append(opts, option.WithCondition("quantity <= reorder_level"))
	}

	filter := &domain.Product{}
	if sku := strings.TrimSpace(req.SKU); sku != "" {
		filter.SKU = sku
	}

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListProductResponse{}, err
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		products = append(products, *item)
	}

	return domain.ListProductResponse{Products: products}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return domain.Product{}, err
	}

	item, err := s.repo.FindOne(ctx, &domain.Product{ID: productID})
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return domain.Product{}, domain.ErrInvalidSKU
	}

	item, err := s.repo.FindOne(ctx, &domain.Product{SKU: sku})
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, actor authctx.Actor, id string, req domain.UpdateProductRequest) (domain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Unit != nil {
		product.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.HSNCode != nil {
		product.HSNCode = strings.TrimSpace(*req.HSNCode)
	}
	if req.GSTRate != nil {
		product.GSTRate = *req.GSTRate
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.InventoryType != nil {
		invType := strings.TrimSpace(*req.InventoryType)
		if invType != domain.InventoryTypeFinishedGood && invType != domain.InventoryTypeRawMaterial {
			return domain.Product{}, domain.ErrInvalidInvType
		}
		product.InventoryType = invType
	}
	if req.Barcode != nil {
		product.Barcode = strings.TrimSpace(*req.Barcode)
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) Delete(ctx context.Context, actor authctx.Actor, id string) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, product.ID.String())
}

func (s *Service) EnsureBySKU(ctx context.Context, tx *gorm.DB, actor authctx.Actor, req domain.EnsureBySKURequest) (domain.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return domain.Product{}, domain.ErrInvalidSKU
	}

	var existing domain.Product
	err := tx.WithContext(ctx).Where(&domain.Product{SKU: sku}).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return domain.Product{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = sku
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:            s.genID.Generate(),
		SKU:           sku,
		Name:          name,
		HSNCode:       strings.TrimSpace(req.HSNCode),
		GSTRate:       req.GSTRate,
		CostPrice:     req.UnitPrice,
		SellingPrice:  req.UnitPrice,
		Quantity:      decimal.Zero,
		InventoryType: domain.InventoryTypeRawMaterial,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
		return domain.Product{}, err
	}

	s.log.Info("catalog row created from purchase line",
		zap.String("sku", sku),
		zap.String("product_id", product.ID.String()),
	)
	return product, nil
}

func (s *Service) AdjustQuantity(ctx context.Context, tx *gorm.DB, id snowflake.ID, delta decimal.Decimal) error {
	var product domain.Product
	if err := tx.WithContext(ctx).Where(&domain.Product{ID: id}).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrNotFound
		}
		return err
	}

	next := product.Quantity.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientQty
	}

	return tx.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   next,
			"updated_at": time.Now().UTC(),
		}).Error
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
