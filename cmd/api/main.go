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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/estate-api/internal/config"
	"github.com/yourusername/estate-api/internal/handler"
	"github.com/yourusername/estate-api/internal/middleware"
	pgRepo "github.com/yourusername/estate-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/estate-api/internal/repository/redis"
	"github.com/yourusername/estate-api/internal/service"
	"github.com/yourusername/estate-api/pkg/auth"
	"github.com/yourusername/estate-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	listingRepo := pgRepo.NewListingRepo(db)
	notificationRepo := pgRepo.NewNotificationRepo(db)

	codeRepo, err := redisRepo.NewVerificationCodeRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize VerificationCodeRepo: %v", err)
		os.Exit(1)
	}

	// JWT service and cookies
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// SameSite=None requires Secure=true, so it is only used behind HTTPS.
	sameSitePolicy := http.SameSiteLaxMode
	if isProduction {
		sameSitePolicy = http.SameSiteNoneMode
	}
	jwtService.SetCookieAttributes("/", "", isProduction, sameSitePolicy)

	// Email sender. Without an API key we run with the no-op sender and
	// codes reach clients only if expose_code_in_response is on.
	var emailService service.EmailService
	if cfg.Email.APIKey != "" {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("[Email] Resend sender configured")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("[Email] no API key configured, using no-op sender")
	}

	// Services
	verificationService, err := service.NewVerificationService(codeRepo, userRepo, emailService)
	if err != nil {
		log.Printf("Failed to initialize VerificationService: %v", err)
		os.Exit(1)
	}
	authService, err := service.NewAuthService(userRepo, notificationRepo, verificationService, emailService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	googleService, err := service.NewGoogleOAuthService(userRepo, emailService, cfg.Google)
	if err != nil {
		log.Printf("Failed to initialize GoogleOAuthService: %v", err)
		os.Exit(1)
	}
	userService, err := service.NewUserService(userRepo)
	if err != nil {
		log.Printf("Failed to initialize UserService: %v", err)
		os.Exit(1)
	}
	listingService, err := service.NewListingService(listingRepo)
	if err != nil {
		log.Printf("Failed to initialize ListingService: %v", err)
		os.Exit(1)
	}
	notificationService, err := service.NewNotificationService(notificationRepo)
	if err != nil {
		log.Printf("Failed to initialize NotificationService: %v", err)
		os.Exit(1)
	}

	var uploadService *service.UploadService
	if cfg.Upload.CloudName != "" && cfg.Upload.UploadPreset != "" {
		uploadService, err = service.NewUploadService(cfg.Upload)
		if err != nil {
			log.Printf("Failed to initialize UploadService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("[Upload] cloudinary not configured, image upload disabled")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, googleService, verificationService, jwtService, cfg.Email.ExposeCodeInResponse)
	userHandler := handler.NewUserHandler(userService, listingService, jwtService)
	listingHandler := handler.NewListingHandler(listingService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	authLimit := rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig())
	strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())

	router := gin.Default()

	// Trusted proxies for correct c.ClientIP(). Production does not trust
	// proxy headers unless a load balancer IP is configured here.
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(authLimit)
		{
			authGroup.POST("/signup", strictLimit, authHandler.SignUp)
			authGroup.POST("/signin", strictLimit, authHandler.SignIn)
			authGroup.POST("/google", authHandler.GoogleSignIn)
			authGroup.POST("/signout", authHandler.SignOut)

			// Code issuance costs an email send, so it gets the strict limit.
			authGroup.POST("/send-registration-code", strictLimit, authHandler.SendRegistrationCode)
			authGroup.POST("/verify-registration-code", strictLimit, authHandler.VerifyRegistrationCode)
			authGroup.POST("/send-password-reset-code", strictLimit, authHandler.SendPasswordResetCode)
			authGroup.POST("/verify-password-reset-code", strictLimit, authHandler.VerifyPasswordResetCode)
		}

		users := api.Group("/users")
		{
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/listings", authMiddleware.RequireAuth(), userHandler.GetUserListings)

			authedUsers := users.Group("")
			authedUsers.Use(authMiddleware.RequireAuth())
			{
				authedUsers.GET("/me", userHandler.GetMe)
				authedUsers.PUT("/:id", userHandler.UpdateUser)
				authedUsers.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		listings := api.Group("/listings")
		{
			listings.GET("", listingHandler.Search)
			listings.GET("/:id", listingHandler.Get)

			authedListings := listings.Group("")
			authedListings.Use(authMiddleware.RequireAuth())
			{
				authedListings.POST("", listingHandler.Create)
				authedListings.PUT("/:id", listingHandler.Update)
				authedListings.DELETE("/:id", listingHandler.Delete)
			}
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("", notificationHandler.Create)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		if uploadService != nil {
			uploadHandler := handler.NewUploadHandler(uploadService)
			api.POST("/upload", authMiddleware.RequireAuth(), uploadHandler.UploadImage)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
