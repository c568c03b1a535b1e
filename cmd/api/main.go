package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "usermanager/api/swagger" // swagger docs
	"usermanager/internal/config"
	"usermanager/internal/credential"
	"usermanager/internal/database"
	"usermanager/internal/handler"
	"usermanager/internal/middleware"
	"usermanager/internal/repository"
	"usermanager/internal/service"
	"usermanager/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           User Management API
// @version         1.0
// @description     Registration, token login and admin-gated management of users and roles.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Migrate(db, cfg.MigrationMode, cfg.DatabaseURL); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	creds, err := credential.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Credential service setup failed: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Admin event feed
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo)
	roleService := service.NewRoleService(roleRepo, txManager)
	userService := service.NewUserService(userRepo, roleRepo, txManager, creds, auditService, wsHub)

	if err := roleService.SeedDefaultRolesAndPermissions(ctx); err != nil {
		log.Fatalf("Seeding roles failed: %v", err)
	}

	homeHandler, err := handler.NewHomeHandler()
	if err != nil {
		log.Fatalf("Loading templates failed: %v", err)
	}

	// Set up Gin Router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/admin/events", websocket.ServeWs(wsHub, userService))

	handler.Handlers{
		Home:  homeHandler,
		Auth:  handler.NewAuthHandler(userService),
		User:  handler.NewUserHandler(userService),
		Admin: handler.NewAdminHandler(userService),
		Role:  handler.NewRoleHandler(roleService),
		Audit: handler.NewAuditHandler(auditService),
	}.Register(router, middleware.Authenticate(userService))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
