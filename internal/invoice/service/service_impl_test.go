package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	accountingdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	accountingservice "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/service"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	companydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/company/domain"
	companyservice "github.com/rashidrk201111/mansoorbhai-billing/internal/company/service"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	customerdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/customer/domain"
	customerservice "github.com/rashidrk201111/mansoorbhai-billing/internal/customer/service"
	inventorydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	inventoryservice "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/service"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/domain"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	productservice "github.com/rashidrk201111/mansoorbhai-billing/internal/product/service"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/providers/whatsapp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	node       *snowflake.Node
	actor      authctx.Actor
	products   productdomain.Service
	customers  customerdomain.Service
	company    companydomain.Service
	inventory  inventorydomain.Service
	accounting accountingdomain.Service
	svc        domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Profile{},
		&customerdomain.Customer{},
		&productdomain.Product{},
		&inventorydomain.Movement{},
		&accountingdomain.Transaction{},
		&accountingdomain.PaymentMethod{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&domain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	products := productservice.New(productservice.Params{DB: db, Log: log, GenID: node})
	customers := customerservice.New(customerservice.Params{DB: db, Log: log, GenID: node})
	company := companyservice.New(companyservice.Params{DB: db, Log: log, GenID: node})
	inventory := inventoryservice.New(inventoryservice.Params{DB: db, Log: log, GenID: node, Products: products})
	accounting := accountingservice.New(accountingservice.Params{DB: db, Log: log, GenID: node})

	svc := New(Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Products:   products,
		Customers:  customers,
		Company:    company,
		Inventory:  inventory,
		Accounting: accounting,
		WhatsApp:   whatsapp.New(config.Config{}, log),
	})

	return &testEnv{
		db:         db,
		node:       node,
		actor:      authctx.Actor{UserID: node.Generate(), Email: "owner@example.com", Role: authctx.RoleAdmin},
		products:   products,
		customers:  customers,
		company:    company,
		inventory:  inventory,
		accounting: accounting,
		svc:        svc,
	}
}

func (e *testEnv) setupCompany(t *testing.T, state string) {
	t.Helper()
	_, err := e.company.Upsert(context.Background(), e.actor, companydomain.UpsertProfileRequest{
		Name:  "Mansoor Traders",
		State: state,
	})
	require.NoError(t, err)
}

func (e *testEnv) createCustomer(t *testing.T, state string) customerdomain.Customer {
	t.Helper()
	customer, err := e.customers.Create(context.Background(), e.actor, customerdomain.CreateCustomerRequest{
		Name:  "Acme Retail",
		Phone: "+919800000000",
		State: state,
	})
	require.NoError(t, err)
	return customer
}

func (e *testEnv) createProduct(t *testing.T, qty, rate, price string) productdomain.Product {
	t.Helper()
	product, err := e.products.Create(context.Background(), e.actor, productdomain.CreateProductRequest{
		SKU:          fmt.Sprintf("SKU-%s", e.node.Generate()),
		Name:         "Steel Rod",
		GSTRate:      decimal.RequireFromString(rate),
		SellingPrice: decimal.RequireFromString(price),
		Quantity:     decimal.RequireFromString(qty),
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) productQty(t *testing.T, id string) string {
	t.Helper()
	product, err := e.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return product.Quantity.String()
}

func (e *testEnv) movementCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&inventorydomain.Movement{}).Count(&count).Error)
	return count
}

func TestCreateInvoice_IntrastateTotals(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("2")},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Number, "INV-"))
	assert.Equal(t, "200", inv.Subtotal.String())
	assert.Equal(t, "18", inv.CGST.String())
	assert.Equal(t, "18", inv.SGST.String())
	assert.Equal(t, "0", inv.IGST.String())
	assert.Equal(t, "236", inv.Total.String())
	assert.False(t, inv.IsInterstate)
	assert.Equal(t, domain.StatusDraft, inv.Status)
	assert.Equal(t, domain.PaymentUnpaid, inv.PaymentStatus)
	assert.NotEmpty(t, inv.PublicToken)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, product.Name, inv.Items[0].ProductName)

	// No stock movement until money changes hands.
	assert.Equal(t, "10", env.productQty(t, product.ID.String()))
	assert.Equal(t, int64(0), env.movementCount(t))
}

func TestCreateInvoice_InterstateTotals(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Karnataka")
	product := env.createProduct(t, "10", "18", "500")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("2")},
		},
	})
	require.NoError(t, err)

	assert.True(t, inv.IsInterstate)
	assert.Equal(t, "0", inv.CGST.String())
	assert.Equal(t, "0", inv.SGST.String())
	assert.Equal(t, "180", inv.IGST.String())
	assert.Equal(t, "1180", inv.Total.String())
}

func TestCreateInvoice_CustomerStateMissingDefaultsIntrastate(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "")
	product := env.createProduct(t, "5", "12", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	assert.False(t, inv.IsInterstate)
	assert.Equal(t, "6", inv.CGST.String())
	assert.Equal(t, "6", inv.SGST.String())
}

func TestCreateInvoice_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "5", "18", "100")

	_, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNoItems)

	_, err = env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.Zero},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateInvoice_RequiresCompanyState(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "5", "18", "100")

	_, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrSellerStateUnset)
}

func TestCreateInvoice_IncludeGSTFalse(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "5", "18", "100")

	includeGST := false
	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		IncludeGST: &includeGST,
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("3")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "300", inv.Subtotal.String())
	assert.Equal(t, "0", inv.Tax.String())
	assert.Equal(t, "300", inv.Total.String())
}

func TestRecordPayment_PartialThenFull(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("2")},
		},
	})
	require.NoError(t, err)

	// First payment commits stock.
	inv, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartial, inv.PaymentStatus)
	assert.Equal(t, "100", inv.AmountPaid.String())
	assert.Equal(t, "8", env.productQty(t, product.ID.String()))
	assert.Equal(t, int64(1), env.movementCount(t))

	// Second payment settles the balance without moving stock again.
	inv, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    decimal.RequireFromString("136"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, inv.PaymentStatus)
	assert.Equal(t, domain.StatusPaid, inv.Status)
	assert.NotNil(t, inv.PaidDate)
	assert.Equal(t, "8", env.productQty(t, product.ID.String()))
	assert.Equal(t, int64(1), env.movementCount(t))

	var txns []accountingdomain.Transaction
	require.NoError(t, env.db.Find(&txns).Error)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, accountingdomain.TransactionIncome, txn.Type)
		assert.Equal(t, inv.ID, txn.InvoiceID)
	}
}

func TestRecordPayment_OverpaymentRejectedBeforeWrites(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	_, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    decimal.RequireFromString("1000"),
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	_, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	var payments int64
	require.NoError(t, env.db.Model(&domain.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(0), payments)
	assert.Equal(t, "10", env.productQty(t, product.ID.String()))
}

func TestMarkPaid_MovesStockOnce(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("3")},
		},
	})
	require.NoError(t, err)

	inv, err = env.svc.MarkPaid(context.Background(), env.actor, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, inv.PaymentStatus)
	assert.Equal(t, inv.Total.String(), inv.AmountPaid.String())
	assert.NotNil(t, inv.PaidDate)
	assert.Equal(t, "7", env.productQty(t, product.ID.String()))
	assert.Equal(t, int64(1), env.movementCount(t))

	// Repeat mark-paid is a no-op.
	inv, err = env.svc.MarkPaid(context.Background(), env.actor, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "7", env.productQty(t, product.ID.String()))
	assert.Equal(t, int64(1), env.movementCount(t))
}

func TestUpdateStatus_PaidPathSharesStockLogic(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("2")},
		},
	})
	require.NoError(t, err)

	// Partial payment already moved stock; the status path must not
	// move it again.
	_, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.movementCount(t))

	inv, err = env.svc.UpdateStatus(context.Background(), env.actor, inv.ID.String(), domain.UpdateStatusRequest{
		Status: domain.StatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, inv.PaymentStatus)
	assert.Equal(t, "8", env.productQty(t, product.ID.String()))
	assert.Equal(t, int64(1), env.movementCount(t))
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "5", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(context.Background(), env.actor, inv.ID.String(), domain.UpdateStatusRequest{
		Status: "shipped",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestLineSnapshotsImmutable(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("999")
	newRate := decimal.RequireFromString("28")
	_, err = env.products.Update(context.Background(), env.actor, product.ID.String(), productdomain.UpdateProductRequest{
		SellingPrice: &newPrice,
		GSTRate:      &newRate,
	})
	require.NoError(t, err)

	reloaded, err := env.svc.GetByID(context.Background(), inv.ID.String())
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "100", reloaded.Items[0].UnitPrice.String())
	assert.Equal(t, "18", reloaded.Items[0].GSTRate.String())
	assert.Equal(t, "118", reloaded.Total.String())
}

func TestGetByPublicToken(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "5", "18", "100")

	inv, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	found, err := env.svc.GetByPublicToken(context.Background(), inv.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)
	require.Len(t, found.Items, 1)

	_, err = env.svc.GetByPublicToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceNumberSequence(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	customer := env.createCustomer(t, "Maharashtra")
	product := env.createProduct(t, "10", "18", "100")

	first, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	second, err := env.svc.Create(context.Background(), env.actor, domain.CreateInvoiceRequest{
		CustomerID: customer.ID.String(),
		Items: []domain.CreateInvoiceItemRequest{
			{ProductID: product.ID.String(), Quantity: decimal.RequireFromString("1")},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.Number, "-0001"), first.Number)
	assert.True(t, strings.HasSuffix(second.Number, "-0002"), second.Number)
}
