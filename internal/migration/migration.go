// Package migration keeps the schema in sync with the models.
package migration

import (
	accountingdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	authdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/auth/domain"
	companydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/company/domain"
	customerdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/customer/domain"
	inventorydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	invoicedomain "github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/domain"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	purchasedomain "github.com/rashidrk201111/mansoorbhai-billing/internal/purchase/domain"
	supplierdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(AutoMigrate),
)

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authdomain.User{},
		&companydomain.Profile{},
		&customerdomain.Customer{},
		&supplierdomain.Supplier{},
		&productdomain.Product{},
		&inventorydomain.Movement{},
		&accountingdomain.Transaction{},
		&accountingdomain.PaymentMethod{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.Payment{},
		&purchasedomain.Purchase{},
		&purchasedomain.PurchaseItem{},
		&purchasedomain.PurchasePayment{},
	)
}
