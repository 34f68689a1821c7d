package main

import (
	"log"
	"strings"

	"consignment-backend/internal/admin"
	"consignment-backend/internal/audit"
	"consignment-backend/internal/auth"
	"consignment-backend/internal/config"
	"consignment-backend/internal/database"
	"consignment-backend/internal/inventory"
	"consignment-backend/internal/models"
	"consignment-backend/internal/notify"
	"consignment-backend/internal/profile"
	"consignment-backend/internal/recall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	notifier := notify.New(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Profile self-service
	protected.Put("/profile", profile.UpdateProfileHandler())
	protected.Put("/profile/password", profile.ChangePasswordHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// User management
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Put("/users/:id", admin.UpdateUserHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())

	// Company management
	adminRoutes.Post("/companies", admin.CreateCompanyHandler())
	adminRoutes.Get("/companies", admin.ListCompaniesHandler())
	adminRoutes.Put("/companies/:id", admin.UpdateCompanyHandler())
	adminRoutes.Delete("/companies/:id", admin.DeleteCompanyHandler())
	adminRoutes.Post("/companies/:id/logo", admin.UploadCompanyLogoHandler(cfg))
	adminRoutes.Post("/companies/sync", admin.SyncCompaniesHandler())

	// Recall notification rules
	adminRoutes.Post("/notification-rules", admin.CreateNotificationRuleHandler())
	adminRoutes.Get("/notification-rules", admin.ListNotificationRulesHandler())
	adminRoutes.Delete("/notification-rules/:id", admin.DeleteNotificationRuleHandler())

	// Workbook upload / reconciliation
	adminRoutes.Post("/inventory/upload", inventory.UploadInventoryHandler())

	// Inventory (tenant-scoped)
	protected.Get("/inventory", inventory.ListInventoryHandler())
	protected.Get("/inventory/export", inventory.ExportInventoryHandler())

	// Recall workflow
	protected.Post("/recalls", recall.SubmitRecallHandler(notifier))
	protected.Get("/recalls", recall.ListRecallsHandler())
	protected.Get("/recalls/export", recall.ExportRecallsHandler())
	adminRoutes.Post("/recalls/receive", recall.ReceiveRecallsHandler())
	adminRoutes.Post("/recalls/restock", recall.RestockRecallsHandler())

	// Audit workflow
	protected.Post("/audits", audit.SubmitAuditHandler())
	protected.Get("/audits", audit.ListAuditsHandler())
	protected.Get("/audits/export", audit.ExportAuditsHandler())
	adminRoutes.Post("/audits/complete", audit.CompleteAuditsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
