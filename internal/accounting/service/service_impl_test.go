package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, authctx.Actor) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Transaction{}, &domain.PaymentMethod{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	actor := authctx.Actor{UserID: node.Generate(), Role: authctx.RoleAccountant}
	return svc, actor
}

func record(t *testing.T, svc domain.Service, actor authctx.Actor, typ, amount string) {
	t.Helper()
	_, err := svc.Record(context.Background(), nil, actor, domain.RecordTransactionRequest{
		Type:   typ,
		Amount: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
}

func TestRecord_Validation(t *testing.T) {
	svc, actor := newTestService(t)

	_, err := svc.Record(context.Background(), nil, actor, domain.RecordTransactionRequest{
		Type:   "transfer",
		Amount: decimal.RequireFromString("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = svc.Record(context.Background(), nil, actor, domain.RecordTransactionRequest{
		Type:   domain.TransactionIncome,
		Amount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSummarize(t *testing.T) {
	svc, actor := newTestService(t)

	record(t, svc, actor, domain.TransactionIncome, "500")
	record(t, svc, actor, domain.TransactionIncome, "250.50")
	record(t, svc, actor, domain.TransactionExpense, "100")

	summary, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "750.5", summary.TotalIncome.String())
	assert.Equal(t, "100", summary.TotalExpense.String())
	assert.Equal(t, "650.5", summary.Net.String())
}

func TestPaymentMethods_CRUD(t *testing.T) {
	svc, actor := newTestService(t)

	method, err := svc.CreatePaymentMethod(context.Background(), actor, domain.CreatePaymentMethodRequest{Name: "UPI"})
	require.NoError(t, err)
	assert.True(t, method.Enabled)

	_, err = svc.CreatePaymentMethod(context.Background(), actor, domain.CreatePaymentMethodRequest{Name: "UPI"})
	assert.ErrorIs(t, err, domain.ErrDuplicateMethodName)

	disabled := false
	updated, err := svc.UpdatePaymentMethod(context.Background(), actor, method.ID.String(), domain.UpdatePaymentMethodRequest{Enabled: &disabled})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)

	require.NoError(t, svc.DeletePaymentMethod(context.Background(), actor, method.ID.String()))

	_, err = svc.UpdatePaymentMethod(context.Background(), actor, method.ID.String(), domain.UpdatePaymentMethodRequest{})
	assert.ErrorIs(t, err, domain.ErrMethodNotFound)
}
