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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"equipreg/internal/config"
	"equipreg/internal/database"
	"equipreg/internal/middleware"
	"equipreg/internal/modules/auth"
	"equipreg/internal/modules/category"
	"equipreg/internal/modules/inventory"
	jwtsvc "equipreg/internal/pkg/jwt"
	"equipreg/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Println("closing database:", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	inventoryService := inventory.NewService(equipmentRepo, categoryRepo, historyRepo)
	inventoryHandler := inventory.NewHandler(inventoryService)

	categoryService := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(categoryService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// authenticated reads
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			inventoryHandler.RegisterRoutes(protected)
			categoryHandler.RegisterRoutes(protected)

			// admin-only writes
			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				inventoryHandler.RegisterAdminRoutes(admin)
				categoryHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Println("Listening on", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("forced shutdown:", err)
	}
}
