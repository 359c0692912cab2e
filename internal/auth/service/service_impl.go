package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/auth/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/db"
	"github.com/rashidrk201111/mansoorbhai-billing/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	secret   []byte
	tokenTTL time.Duration
	repo     repository.Repository[domain.User]
}

func New(p Params) domain.Service {
	log := p.Log.Named("auth.service")
	if p.Config.AuthJWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is not set, tokens are signed with an empty key")
	}
	return &Service{
		db:       p.DB,
		log:      log,
		genID:    p.GenID,
		secret:   []byte(p.Config.AuthJWTSecret),
		tokenTTL: p.Config.AuthTokenTTL,
		repo:     repository.ProvideStore[domain.User](p.DB),
	}
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindOne(ctx, &domain.User{Email: email})
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: user.Email,
		Role:  user.Role,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	s.log.Info("user logged in", zap.String("email", user.Email), zap.String("role", user.Role))

	return domain.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      *user,
	}, nil
}

func (s *Service) Verify(ctx context.Context, token string) (authctx.Actor, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return authctx.Actor{}, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(parsed.Subject)
	if err != nil || userID == 0 {
		return authctx.Actor{}, domain.ErrInvalidToken
	}

	actor := authctx.Actor{
		UserID: userID,
		Email:  parsed.Email,
		Role:   authctx.Role(parsed.Role),
	}
	if !actor.Valid() {
		return authctx.Actor{}, domain.ErrInvalidToken
	}
	return actor, nil
}

func (s *Service) CreateUser(ctx context.Context, actor authctx.Actor, req domain.CreateUserRequest) (domain.User, error) {
	if !actor.Is(authctx.RoleAdmin) {
		return domain.User{}, domain.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return domain.User{}, domain.ErrInvalidPassword
	}
	if !authctx.ValidRole(req.Role) {
		return domain.User{}, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.User, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || userID == 0 {
		return domain.User{}, domain.ErrNotFound
	}

	user, err := s.repo.FindOne(ctx, &domain.User{ID: userID})
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}
