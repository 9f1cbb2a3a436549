package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/trastienda-api/internal/application/orders"
	"github.com/dquispe/trastienda-api/internal/application/sales"
	"github.com/dquispe/trastienda-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StoreUC    *usecase.StoreUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	ProductUC  *usecase.ProductUseCase
	FinanceUC  *usecase.FinanceUseCase
	OrderUC    *orders.UseCase
	SaleUC     *sales.UseCase
}

// Router registra las rutas de la API. Todo recurso de tienda cuelga de
// /api/stores/:store_id; el store es siempre explícito en la URL.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Stores
	stores := api.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Get("/", storeHandler.List)
	stores.Post("/", storeHandler.Create)
	stores.Get("/:store_id", storeHandler.GetByID)

	// Recursos escopados por tienda
	store := stores.Group("/:store_id")

	// Categories
	categories := store.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Suppliers
	suppliers := store.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Products
	products := store.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/stock", productHandler.AdjustStock)
	products.Get("/:id/movements", productHandler.Movements)

	// Orders (compras a proveedor)
	ordersGroup := store.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	// Sales (ventas)
	salesGroup := store.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Finance (libro financiero)
	finance := store.Group("/finance")
	financeHandler := NewFinanceHandler(deps.FinanceUC)
	finance.Post("/", financeHandler.Create)
	finance.Get("/", financeHandler.List)
	finance.Get("/balance", financeHandler.Balance)
}
