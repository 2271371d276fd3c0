package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/cloud"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/handler"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/middleware"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/store"
	syncengine "github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/sync"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/ws"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/database"
	applogger "github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zlog, err := applogger.New()
	if err != nil {
		log.Fatal("logger init:", err)
	}
	defer zlog.Sync()

	// 2. Setup Database (key/value store on embedded sqlite)
	db := database.ConnectDB()
	kv := store.New(db, zlog)
	if err := kv.Migrate(); err != nil {
		zlog.Fatal("migrasi store gagal", zap.Error(err))
	}

	// 3. Endpoint guard: a changed cloud URL means this node's local data
	// belongs to another deployment. Wipe before resync.
	apiURL := os.Getenv("SPPG_API_URL")
	if stored, ok := kv.ReadValue(store.SlotAPIURL); ok && string(stored) != apiURL {
		zlog.Warn("endpoint cloud berubah, data lokal dihapus",
			zap.String("lama", string(stored)), zap.String("baru", apiURL))
		kv.Wipe()
	}
	if err := kv.WriteValue(store.SlotAPIURL, []byte(apiURL)); err != nil {
		zlog.Fatal("gagal menyimpan endpoint", zap.Error(err))
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 5. Cloud client + sync engine
	remote := cloud.NewClient(apiURL, os.Getenv("SPPG_API_KEY"), zlog)
	engine := syncengine.NewEngine(kv, remote, wsHub, zlog)

	// 6. Dependency Injection (Wiring Layers)
	repo := repository.New(kv, engine, zlog)
	seedAdmin(repo, zlog)

	pipeline := foto.New(foto.Options{
		OrgName: envOr("SPPG_ORG_NAME", "SPPG - JIMBARAN 5"),
		Address: envOr("SPPG_ORG_ADDRESS", "Jimbaran, Badung, Bali"),
	}, buildLocator(), zlog)

	authService := service.NewAuthService(repo, kv, zlog)
	produksiService := service.NewProduksiService(repo, pipeline, zlog)
	distribusiService := service.NewDistribusiService(repo, pipeline, zlog)
	backupService := service.NewBackupService(kv, repo, zlog)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(repo)
	produksiHandler := handler.NewProduksiHandler(repo, produksiService)
	distribusiHandler := handler.NewDistribusiHandler(repo, distribusiService)
	logistikHandler := handler.NewLogistikHandler(repo)
	auditHandler := handler.NewAuditHandler(repo)
	syncHandler := handler.NewSyncHandler(engine)
	backupHandler := handler.NewBackupHandler(backupService)
	fotoHandler := handler.NewFotoHandler(pipeline, zlog)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "SPPG Jimbaran 05 Ops v2.2",
		BodyLimit: 25 * 1024 * 1024, // photo uploads
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(authService))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/roles", userHandler.GetRoles)

	// User management (admin only)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequireAdmin(), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequireAdmin(), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequireAdmin(), userHandler.DeleteUser)

	// Produksi (kitchen SOP checklist)
	protected.Get("/produksi", produksiHandler.GetProduksi)
	protected.Get("/produksi/checklist", produksiHandler.GetChecklist)
	protected.Post("/produksi/steps/:step", middleware.RequireEdit(), produksiHandler.CompleteStep)
	protected.Delete("/produksi/:id", middleware.RequireEdit(), produksiHandler.DeleteProduksi)

	// Distribusi (delivery waves)
	protected.Get("/distribusi", distribusiHandler.GetDistribusi)
	protected.Get("/distribusi/kloter", distribusiHandler.GetKloters)
	protected.Get("/distribusi/:id", distribusiHandler.GetDistribusiByID)
	protected.Post("/distribusi", middleware.RequireEdit(), distribusiHandler.CreateDistribusi)
	protected.Put("/distribusi/:id", middleware.RequireEdit(), distribusiHandler.UpdateDistribusi)
	protected.Post("/distribusi/:id/berangkat", middleware.RequireEdit(), distribusiHandler.Berangkat)
	protected.Post("/distribusi/:id/tiba", middleware.RequireEdit(), distribusiHandler.Tiba)
	protected.Delete("/distribusi/:id", middleware.RequireEdit(), distribusiHandler.DeleteDistribusi)

	// Logistik (incoming goods + QC)
	protected.Get("/logistik", logistikHandler.GetLogistik)
	protected.Get("/logistik/:id", logistikHandler.GetLogistikByID)
	protected.Post("/logistik", middleware.RequireEdit(), logistikHandler.CreateLogistik)
	protected.Put("/logistik/:id", middleware.RequireEdit(), logistikHandler.UpdateLogistik)
	protected.Put("/logistik/:id/qc", middleware.RequireEdit(), logistikHandler.SetQC)
	protected.Delete("/logistik/:id", middleware.RequireEdit(), logistikHandler.DeleteLogistik)

	// Audit trail
	protected.Get("/audit", auditHandler.GetAudit)

	// Sync
	protected.Post("/sync/full", syncHandler.FullSync)
	protected.Post("/sync/tables/:table/push", middleware.RequireEdit(), syncHandler.PushTable)
	protected.Get("/sync/status", syncHandler.GetStatus)
	protected.Get("/sync/ping", syncHandler.Ping)

	// Backup
	protected.Get("/export", backupHandler.Export)
	protected.Post("/import", middleware.RequireAdmin(), backupHandler.Import)
	protected.Post("/reset", middleware.RequireAdmin(), backupHandler.Reset)

	// Foto (standalone watermark service)
	protected.Post("/foto", middleware.RequireEdit(), fotoHandler.Capture)
	protected.Post("/foto/batch", middleware.RequireEdit(), fotoHandler.CaptureBatch)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Background sync loop
	ctx, stop := context.WithCancel(context.Background())
	go engine.Run(ctx)

	// 10. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	stop()
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited")
}

// seedAdmin creates the default admin account on first boot so the kitchen
// can log in before any user management happened.
func seedAdmin(repo *repository.Repository, zlog *zap.Logger) {
	phone := envOr("SPPG_ADMIN_PHONE", "8123456789")
	if _, ok := repo.Users.ByPhone(phone); ok {
		return
	}
	admin := repo.Users.Add(&model.User{
		Nama:   envOr("SPPG_ADMIN_NAME", "Admin SPPG"),
		Phone:  phone,
		Role:   "admin",
		Status: model.StatusActive,
	})
	zlog.Info("✅ Admin user dibuat", zap.String("phone", admin.Phone))
}

func buildLocator() foto.Locator {
	lat, errLat := strconv.ParseFloat(os.Getenv("SPPG_LAT"), 64)
	lng, errLng := strconv.ParseFloat(os.Getenv("SPPG_LNG"), 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	return &foto.CachedLocator{Inner: &foto.StaticLocator{Fix: foto.Fix{Lat: lat, Lng: lng}}}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
