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
	inventorydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	inventoryservice "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/service"
	invoicedomain "github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/domain"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	productservice "github.com/rashidrk201111/mansoorbhai-billing/internal/product/service"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/purchase/domain"
	supplierdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/domain"
	supplierservice "github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	node      *snowflake.Node
	actor     authctx.Actor
	products  productdomain.Service
	suppliers supplierdomain.Service
	company   companydomain.Service
	svc       domain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Profile{},
		&supplierdomain.Supplier{},
		&productdomain.Product{},
		&inventorydomain.Movement{},
		&accountingdomain.Transaction{},
		&domain.Purchase{},
		&domain.PurchaseItem{},
		&domain.PurchasePayment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	products := productservice.New(productservice.Params{DB: db, Log: log, GenID: node})
	suppliers := supplierservice.New(supplierservice.Params{DB: db, Log: log, GenID: node})
	company := companyservice.New(companyservice.Params{DB: db, Log: log, GenID: node})
	inventory := inventoryservice.New(inventoryservice.Params{DB: db, Log: log, GenID: node, Products: products})
	accounting := accountingservice.New(accountingservice.Params{DB: db, Log: log, GenID: node})

	svc := New(Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Products:   products,
		Suppliers:  suppliers,
		Company:    company,
		Inventory:  inventory,
		Accounting: accounting,
	})

	return &testEnv{
		db:        db,
		node:      node,
		actor:     authctx.Actor{UserID: node.Generate(), Email: "owner@example.com", Role: authctx.RoleAdmin},
		products:  products,
		suppliers: suppliers,
		company:   company,
		svc:       svc,
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

func (e *testEnv) createSupplier(t *testing.T, state string) supplierdomain.Supplier {
	t.Helper()
	supplier, err := e.suppliers.Create(context.Background(), e.actor, supplierdomain.CreateSupplierRequest{
		Name:  "Bharat Steels",
		State: state,
	})
	require.NoError(t, err)
	return supplier
}

func TestCreatePurchase_UnknownSKUSeedsCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	supplier := env.createSupplier(t, "Maharashtra")

	purchase, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{
				SKU:       "RM-001",
				Name:      "Iron Sheet",
				Quantity:  decimal.RequireFromString("5"),
				UnitPrice: decimal.RequireFromString("40"),
				GSTRate:   decimal.RequireFromString("18"),
			},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(purchase.Number, "PO-"))
	assert.Equal(t, domain.StatusOrdered, purchase.Status)
	assert.Equal(t, "200", purchase.Subtotal.String())
	assert.Equal(t, "18", purchase.CGST.String())
	assert.Equal(t, "18", purchase.SGST.String())
	assert.Equal(t, "236", purchase.Total.String())
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, "9", purchase.Items[0].CGSTRate.String())
	assert.Equal(t, "9", purchase.Items[0].SGSTRate.String())
	assert.Equal(t, "0", purchase.Items[0].IGSTRate.String())

	// The unknown SKU now exists with zero stock until receipt.
	product, err := env.products.GetBySKU(context.Background(), "RM-001")
	require.NoError(t, err)
	assert.Equal(t, "0", product.Quantity.String())
	assert.Equal(t, productdomain.InventoryTypeRawMaterial, product.InventoryType)
	assert.Equal(t, "Iron Sheet", product.Name)
}

func TestCreatePurchase_ReusesExistingSKU(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	supplier := env.createSupplier(t, "Maharashtra")

	existing, err := env.products.Create(context.Background(), env.actor, productdomain.CreateProductRequest{
		SKU:      "RM-002",
		Name:     "Copper Wire",
		GSTRate:  decimal.RequireFromString("12"),
		Quantity: decimal.RequireFromString("3"),
	})
	require.NoError(t, err)

	purchase, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{SKU: "RM-002", Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("50")},
		},
	})
	require.NoError(t, err)

	require.Len(t, purchase.Items, 1)
	assert.Equal(t, existing.ID, purchase.Items[0].ProductID)
	// Rate falls back to the catalog when the line omits it.
	assert.Equal(t, "12", purchase.Items[0].GSTRate.String())

	var count int64
	require.NoError(t, env.db.Model(&productdomain.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePurchase_InterstateUsesIGST(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	supplier := env.createSupplier(t, "Gujarat")

	purchase, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{SKU: "RM-003", Quantity: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("100"), GSTRate: decimal.RequireFromString("18")},
		},
	})
	require.NoError(t, err)

	assert.True(t, purchase.IsInterstate)
	assert.Equal(t, "0", purchase.CGST.String())
	assert.Equal(t, "180", purchase.IGST.String())
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, "18", purchase.Items[0].IGSTRate.String())
	assert.Equal(t, "0", purchase.Items[0].CGSTRate.String())
}

func TestMarkReceived_MovesStockOnce(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	supplier := env.createSupplier(t, "Maharashtra")

	purchase, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{SKU: "RM-004", Quantity: decimal.RequireFromString("5"), UnitPrice: decimal.RequireFromString("40"), GSTRate: decimal.RequireFromString("18")},
		},
	})
	require.NoError(t, err)

	received, err := env.svc.MarkReceived(context.Background(), env.actor, purchase.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedDate)

	product, err := env.products.GetBySKU(context.Background(), "RM-004")
	require.NoError(t, err)
	assert.Equal(t, "5", product.Quantity.String())

	var movements []inventorydomain.Movement
	require.NoError(t, env.db.Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventorydomain.MovementIn, movements[0].Type)

	_, err = env.svc.MarkReceived(context.Background(), env.actor, purchase.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)

	product, err = env.products.GetBySKU(context.Background(), "RM-004")
	require.NoError(t, err)
	assert.Equal(t, "5", product.Quantity.String())
}

func TestRecordPayment_AppendsExpense(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	supplier := env.createSupplier(t, "Maharashtra")

	purchase, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{SKU: "RM-005", Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("100"), GSTRate: decimal.RequireFromString("18")},
		},
	})
	require.NoError(t, err)

	purchase, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		PurchaseID: purchase.ID.String(),
		Amount:     decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.PaymentPartial, purchase.PaymentStatus)
	assert.Equal(t, "100", purchase.AmountPaid.String())

	// Purchase payments never move stock; receipt does.
	product, err := env.products.GetBySKU(context.Background(), "RM-005")
	require.NoError(t, err)
	assert.Equal(t, "0", product.Quantity.String())

	var txns []accountingdomain.Transaction
	require.NoError(t, env.db.Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, accountingdomain.TransactionExpense, txns[0].Type)
	assert.Equal(t, "Inventory Purchase", txns[0].Category)
	assert.Equal(t, purchase.ID, txns[0].PurchaseID)

	_, err = env.svc.RecordPayment(context.Background(), env.actor, domain.RecordPaymentRequest{
		PurchaseID: purchase.ID.String(),
		Amount:     decimal.RequireFromString("500"),
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)
}

func TestCreatePurchase_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.setupCompany(t, "Maharashtra")
	supplier := env.createSupplier(t, "Maharashtra")

	_, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrNoItems)

	_, err = env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{SKU: "RM-006", Quantity: decimal.Zero, UnitPrice: decimal.RequireFromString("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreatePurchase_RequiresCompanyState(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createSupplier(t, "Maharashtra")

	_, err := env.svc.Create(context.Background(), env.actor, domain.CreatePurchaseRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.CreatePurchaseItemRequest{
			{SKU: "RM-007", Quantity: decimal.RequireFromString("1"), UnitPrice: decimal.RequireFromString("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrSellerStateUnset)
}
