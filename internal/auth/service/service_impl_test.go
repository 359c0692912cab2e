package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/auth/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	return newTestServiceWithConfig(t, config.Config{
		AuthJWTSecret: "test-secret",
		AuthTokenTTL:  time.Hour,
	})
}

func newTestServiceWithConfig(t *testing.T, cfg config.Config) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Config: cfg,
	})
	return svc, db, node
}

func seedUser(t *testing.T, db *gorm.DB, node *snowflake.Node, email, password, role string) domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := domain.User{
		ID:           node.Generate(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestLoginAndVerify(t *testing.T) {
	svc, db, node := newTestService(t)
	user := seedUser(t, db, node, "owner@example.com", "secret-pass", string(authctx.RoleAdmin))

	resp, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "Owner@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	actor, err := svc.Verify(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, authctx.RoleAdmin, actor.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, db, node := newTestService(t)
	seedUser(t, db, node, "owner@example.com", "secret-pass", string(authctx.RoleAdmin))

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret-pass",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_ExpiryHonorsConfiguredTTL(t *testing.T) {
	svc, db, node := newTestService(t)
	seedUser(t, db, node, "owner@example.com", "secret-pass", string(authctx.RoleAdmin))

	resp, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), resp.ExpiresAt, time.Minute)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc, db, node := newTestServiceWithConfig(t, config.Config{
		AuthJWTSecret: "test-secret",
		AuthTokenTTL:  -time.Hour,
	})
	seedUser(t, db, node, "owner@example.com", "secret-pass", string(authctx.RoleAdmin))

	resp, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "owner@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), resp.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNew_WarnsWhenSecretUnset(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	New(Params{DB: db, Log: zap.New(core), GenID: node, Config: config.Config{}})

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "AUTH_JWT_SECRET")
}

func TestVerify_BadToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCreateUser_RoleGate(t *testing.T) {
	svc, db, node := newTestService(t)
	admin := seedUser(t, db, node, "admin@example.com", "secret-pass", string(authctx.RoleAdmin))
	sales := seedUser(t, db, node, "sales@example.com", "secret-pass", string(authctx.RoleSales))

	adminActor := authctx.Actor{UserID: admin.ID, Role: authctx.RoleAdmin}
	salesActor := authctx.Actor{UserID: sales.ID, Role: authctx.RoleSales}

	_, err := svc.CreateUser(context.Background(), salesActor, domain.CreateUserRequest{
		Email:    "new@example.com",
		Password: "long-enough",
		Role:     string(authctx.RoleAccountant),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	user, err := svc.CreateUser(context.Background(), adminActor, domain.CreateUserRequest{
		Email:    "new@example.com",
		Password: "long-enough",
		Role:     string(authctx.RoleAccountant),
	})
	require.NoError(t, err)
	assert.Equal(t, string(authctx.RoleAccountant), user.Role)

	_, err = svc.CreateUser(context.Background(), adminActor, domain.CreateUserRequest{
		Email:    "new@example.com",
		Password: "long-enough",
		Role:     string(authctx.RoleAccountant),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.CreateUser(context.Background(), adminActor, domain.CreateUserRequest{
		Email:    "short@example.com",
		Password: "short",
		Role:     string(authctx.RoleSales),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.CreateUser(context.Background(), adminActor, domain.CreateUserRequest{
		Email:    "role@example.com",
		Password: "long-enough",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
