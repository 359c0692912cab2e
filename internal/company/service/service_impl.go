package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/company/domain"
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
	repo  repository.Repository[domain.Profile]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Profile](p.DB),
	}
}

func (s *Service) Get(ctx context.Context, actor authctx.Actor) (domain.Profile, error) {
	item, err := s.repo.FindOne(ctx, &domain.Profile{OwnerID: actor.UserID})
	if err != nil {
		return domain.Profile{}, err
	}
	if item == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Upsert(ctx context.Context, actor authctx.Actor, req domain.UpsertProfileRequest) (domain.Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Profile{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	existing, err := s.repo.FindOne(ctx, &domain.Profile{OwnerID: actor.UserID})
	if err != nil {
		return domain.Profile{}, err
	}

	if existing == nil {
		profile := domain.Profile{
			ID:        s.genID.Generate(),
			Name:      name,
			Address:   strings.TrimSpace(req.Address),
			State:     strings.TrimSpace(req.State),
			GSTIN:     strings.TrimSpace(req.GSTIN),
			Phone:     strings.TrimSpace(req.Phone),
			Email:     strings.TrimSpace(req.Email),
			OwnerID:   actor.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, &profile); err != nil {
			return domain.Profile{}, err
		}
		return profile, nil
	}

	existing.Name = name
	existing.Address = strings.TrimSpace(req.Address)
	existing.State = strings.TrimSpace(req.State)
	existing.GSTIN = strings.TrimSpace(req.GSTIN)
	existing.Phone = strings.TrimSpace(req.Phone)
	existing.Email = strings.TrimSpace(req.Email)
	existing.UpdatedAt = now

	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return domain.Profile{}, err
	}
	return *existing, nil
}

func (s *Service) SellerState(ctx context.Context, actor authctx.Actor) (string, error) {
	profile, err := s.Get(ctx, actor)
	if err != nil {
		return "", err
	}
	return profile.State, nil
}
