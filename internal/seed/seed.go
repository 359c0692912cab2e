// Package seed provisions the first admin account and the default
// payment methods on an empty database.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	accountingdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	authdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/auth/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultPaymentMethods = []string{"Cash", "UPI", "Bank Transfer", "Cheque"}

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
}

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

func Run(p Params) error {
	ctx := context.Background()
	log := p.Log.Named("seed")

	if err := seedAdmin(ctx, p, log); err != nil {
		return err
	}
	return seedPaymentMethods(ctx, p, log)
}

func seedAdmin(ctx context.Context, p Params, log *zap.Logger) error {
	var count int64
	if err := p.DB.WithContext(ctx).Model(&authdomain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if p.Config.SeedAdminEmail == "" || p.Config.SeedAdminPassword == "" {
		log.Warn("no users exist and no seed admin configured")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Config.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := authdomain.User{
		ID:           p.GenID.Generate(),
		Email:        p.Config.SeedAdminEmail,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         string(authctx.RoleAdmin),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	log.Info("seed admin created", zap.String("email", user.Email))
	return nil
}

func seedPaymentMethods(ctx context.Context, p Params, log *zap.Logger) error {
	var count int64
	if err := p.DB.WithContext(ctx).Model(&accountingdomain.PaymentMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	methods := make([]accountingdomain.PaymentMethod, 0, len(defaultPaymentMethods))
	for _, name := range defaultPaymentMethods {
		methods = append(methods, accountingdomain.PaymentMethod{
			ID:        p.GenID.Generate(),
			Name:      name,
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := p.DB.WithContext(ctx).Create(&methods).Error; err != nil {
		return err
	}

	log.Info("default payment methods created", zap.Int("count", len(methods)))
	return nil
}
