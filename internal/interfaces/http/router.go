package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockflow-pro/internal/application/approval"
	"github.com/tu-usuario/stockflow-pro/internal/application/auth"
	"github.com/tu-usuario/stockflow-pro/internal/domain/entity"
	"github.com/tu-usuario/stockflow-pro/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	RequestUC    *approval.StockRequestUseCase
	DecideUC     *approval.DecideUseCase
	LedgerRepo   repository.StockMovementRepository
	PositionRepo repository.StockPositionRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solicitudes de cambio de stock
	requests := protected.Group("/stock-requests")
	requestHandler := NewStockRequestHandler(deps.RequestUC)
	requests.Post("/", requestHandler.Submit)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)

	// Decisión: solo roles aprobadores. El gate del núcleo vuelve a validar
	// el rol contra la DB antes de tocar la solicitud.
	approvalHandler := NewApprovalHandler(deps.DecideUC)
	requests.Post("/:id/decision",
		RequireRole(entity.ApproverRoles...),
		approvalHandler.Decide,
	)

	// Vistas de inventario (solo lectura)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerRepo, deps.PositionRepo)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/stock", inventoryHandler.ListStock)
}
