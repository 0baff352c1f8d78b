package main

import (
	"log"
	"net/http"

	"linkcard-be/internal/config"
	"linkcard-be/internal/controllers"
	"linkcard-be/internal/database"
	"linkcard-be/internal/fbgraph"
	"linkcard-be/internal/middleware"
	"linkcard-be/internal/repository"
	"linkcard-be/internal/service"
	"linkcard-be/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize upload storage
	store, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize repositories
	linkRepo := repository.NewLinkRepository(db)
	imageRepo := repository.NewImageRepository(db)

	// Initialize services
	linkService := service.NewLinkService(linkRepo, store)
	imageService := service.NewImageService(imageRepo, store)

	// Initialize controllers
	linkController := controllers.NewLinkController(linkService, cfg.BaseURL)
	imageController := controllers.NewImageController(imageService, cfg.BaseURL)
	qrcodeController := controllers.NewQRCodeController(linkService, cfg.BaseURL)
	postController := controllers.NewPostController(linkService, fbgraph.NewClient(cfg.FBAPIVersion), cfg.BaseURL)

	bodyLimit := middleware.BodyLimit(cfg.MaxUploadBytes)

	// Create a Gin router
	router := gin.Default()
	router.LoadHTMLGlob("templates/*")
	router.Static("/static/uploads", cfg.UploadDir)

	// Landing and image pages
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/upload")
	})
	router.GET("/upload", imageController.UploadPage)
	router.GET("/i/:id", imageController.ViewImage)

	// Link creation and the cloaked visit
	router.POST("/create", bodyLimit, linkController.CreateLink)
	router.GET("/:slug", linkController.Visit)

	// API routes group
	api := router.Group("/api")
	{
		api.POST("/upload", bodyLimit, imageController.UploadImage)
		api.POST("/grid", bodyLimit, imageController.CreateGrid)
		api.POST("/images/:id/delete", imageController.DeleteImage)
		api.GET("/qrcode/:slug", qrcodeController.GenerateQRCode)
		api.POST("/posts", postController.CreatePost)
	}

	// Garbled-path recovery for everything outside the route table
	router.NoRoute(controllers.NotFound)

	log.Printf("Server starting on http://localhost:%s", cfg.Port)
	router.Run(":" + cfg.Port)
}
