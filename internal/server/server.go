package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/accounting"
	accountingdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/accounting/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/auth"
	authdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/auth/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/company"
	companydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/company/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/config"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/customer"
	customerdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/customer/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/inventory"
	inventorydomain "github.com/rashidrk201111/mansoorbhai-billing/internal/inventory/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/invoice"
	invoicedomain "github.com/rashidrk201111/mansoorbhai-billing/internal/invoice/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/observability"
	obsmiddleware "github.com/rashidrk201111/mansoorbhai-billing/internal/observability/logger"
	obsmetrics "github.com/rashidrk201111/mansoorbhai-billing/internal/observability/metrics"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/product"
	productdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/product/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/providers/whatsapp"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/purchase"
	purchasedomain "github.com/rashidrk201111/mansoorbhai-billing/internal/purchase/domain"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/supplier"
	supplierdomain "github.com/rashidrk201111/mansoorbhai-billing/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	whatsapp.Module,
	auth.Module,
	company.Module,
	customer.Module,
	supplier.Module,
	product.Module,
	inventory.Module,
	accounting.Module,
	invoice.Module,
	purchase.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	authSvc       authdomain.Service
	companySvc    companydomain.Service
	customerSvc   customerdomain.Service
	supplierSvc   supplierdomain.Service
	productSvc    productdomain.Service
	inventorySvc  inventorydomain.Service
	accountingSvc accountingdomain.Service
	invoiceSvc    invoicedomain.Service
	purchaseSvc   purchasedomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	AuthSvc       authdomain.Service
	CompanySvc    companydomain.Service
	CustomerSvc   customerdomain.Service
	SupplierSvc   supplierdomain.Service
	ProductSvc    productdomain.Service
	InventorySvc  inventorydomain.Service
	AccountingSvc accountingdomain.Service
	InvoiceSvc    invoicedomain.Service
	PurchaseSvc   purchasedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		authSvc:       p.AuthSvc,
		companySvc:    p.CompanySvc,
		customerSvc:   p.CustomerSvc,
		supplierSvc:   p.SupplierSvc,
		productSvc:    p.ProductSvc,
		inventorySvc:  p.InventorySvc,
		accountingSvc: p.AccountingSvc,
		invoiceSvc:    p.InvoiceSvc,
		purchaseSvc:   p.PurchaseSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.POST("/users", s.AuthRequired(), s.RequireRole(authctx.RoleAdmin), s.CreateUser)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Company profile --------
	api.GET("/company", s.GetCompanyProfile)
	api.PUT("/company", s.RequireRole(authctx.RoleAdmin), s.UpsertCompanyProfile)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.RequireRole(authctx.RoleInventoryManager), s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.RequireRole(authctx.RoleInventoryManager), s.UpdateProduct)
	api.DELETE("/products/:id", s.RequireRole(authctx.RoleInventoryManager), s.DeleteProduct)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.RequireRole(authctx.RoleSales), s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.RequireRole(authctx.RoleSales), s.UpdateCustomer)
	api.DELETE("/customers/:id", s.RequireRole(authctx.RoleAdmin), s.DeleteCustomer)

	// -------- Suppliers --------
	api.GET("/suppliers", s.ListSuppliers)
	api.POST("/suppliers", s.RequireRole(authctx.RoleInventoryManager), s.CreateSupplier)
	api.GET("/suppliers/:id", s.GetSupplierByID)
	api.PATCH("/suppliers/:id", s.RequireRole(authctx.RoleInventoryManager), s.UpdateSupplier)
	api.DELETE("/suppliers/:id", s.RequireRole(authctx.RoleAdmin), s.DeleteSupplier)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.RequireRole(authctx.RoleSales, authctx.RoleAccountant), s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.POST("/invoices/:id/payments", s.RequireRole(authctx.RoleAccountant, authctx.RoleSales), s.RecordInvoicePayment)
	api.POST("/invoices/:id/mark-paid", s.RequireRole(authctx.RoleAccountant, authctx.RoleSales), s.MarkInvoicePaid)
	api.PATCH("/invoices/:id/status", s.RequireRole(authctx.RoleAccountant, authctx.RoleSales), s.UpdateInvoiceStatus)
	api.DELETE("/invoices/:id", s.RequireRole(authctx.RoleAdmin), s.DeleteInvoice)

	// -------- Purchases --------
	api.GET("/purchases", s.ListPurchases)
	api.POST("/purchases", s.RequireRole(authctx.RoleInventoryManager, authctx.RoleAccountant), s.CreatePurchase)
	api.GET("/purchases/:id", s.GetPurchaseByID)
	api.POST("/purchases/:id/receive", s.RequireRole(authctx.RoleInventoryManager), s.MarkPurchaseReceived)
	api.POST("/purchases/:id/payments", s.RequireRole(authctx.RoleAccountant), s.RecordPurchasePayment)
	api.DELETE("/purchases/:id", s.RequireRole(authctx.RoleAdmin), s.DeletePurchase)

	// -------- Inventory --------
	api.GET("/inventory/movements", s.ListStockMovements)
	api.POST("/inventory/adjustments", s.RequireRole(authctx.RoleInventoryManager), s.AdjustStock)

	// -------- Accounting --------
	api.GET("/transactions", s.RequireRole(authctx.RoleAccountant), s.ListTransactions)
	api.POST("/transactions", s.RequireRole(authctx.RoleAccountant), s.RecordTransaction)
	api.GET("/transactions/summary", s.RequireRole(authctx.RoleAccountant), s.GetTransactionSummary)

	// -------- Payment methods --------
	api.GET("/payment-methods", s.ListPaymentMethods)
	api.POST("/payment-methods", s.RequireRole(authctx.RoleAdmin), s.CreatePaymentMethod)
	api.PATCH("/payment-methods/:id", s.RequireRole(authctx.RoleAdmin), s.UpdatePaymentMethod)
	api.DELETE("/payment-methods/:id", s.RequireRole(authctx.RoleAdmin), s.DeletePaymentMethod)
}

func (s *Server) registerPublicRoutes() {
	// Customers follow a share link; no auth, token is the capability.
	s.engine.GET("/public/invoices/:token", s.GetPublicInvoice)
}
