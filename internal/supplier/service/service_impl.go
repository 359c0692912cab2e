package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/db/option"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/repository"
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
	repo  repository.Repository[domain.Supplier]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("supplier.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Supplier](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, actor authctx.Actor, req domain.CreateSupplierRequest) (domain.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Supplier{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	supplier := domain.Supplier{
		ID:             s.genID.Generate(),
		Name:           name,
		ContactPerson:  strings.TrimSpace(req.ContactPerson),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		State:          strings.TrimSpace(req.State),
		GSTIN:          strings.TrimSpace(req.GSTIN),
		OpeningBalance: req.OpeningBalance,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, &supplier); err != nil {
		return domain.Supplier{}, err
	}

	return supplier, nil
}

func (s *Service) List(ctx context.Context) (domain.ListSupplierResponse, error) {
	items, err := s.repo.Find(ctx, &domain.Supplier{}, option.WithOrder("name asc"))
	if err != nil {
		return domain.ListSupplierResponse{}, err
	}

	suppliers := make([]domain.Supplier, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		suppliers = append(suppliers, *item)
	}

	return domain.ListSupplierResponse{Suppliers: suppliers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Supplier, error) {
	supplierID, err := parseID(id)
	if err != nil {
		return domain.Supplier{}, err
	}

	item, err := s.repo.FindOne(ctx, &domain.Supplier{ID: supplierID})
	if err != nil {
		return domain.Supplier{}, err
	}
	if item == nil {
		return domain.Supplier{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, actor authctx.Actor, id string, req domain.UpdateSupplierRequest) (domain.Supplier, error) {
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Supplier{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Supplier{}, domain.ErrInvalidName
		}
		supplier.Name = name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = strings.TrimSpace(*req.ContactPerson)
	}
	if req.Email != nil {
		supplier.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		supplier.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		supplier.Address = strings.TrimSpace(*req.Address)
	}
	if req.State != nil {
		supplier.State = strings.TrimSpace(*req.State)
	}
	if req.GSTIN != nil {
		supplier.GSTIN = strings.TrimSpace(*req.GSTIN)
	}
	if req.OpeningBalance != nil {
		supplier.OpeningBalance = *req.OpeningBalance
	}
	supplier.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(&supplier).Error; err != nil {
		return domain.Supplier{}, err
	}

	return supplier, nil
}

func (s *Service) Delete(ctx context.Context, actor authctx.Actor, id string) error {
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, supplier.ID.String())
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
