package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gogo-study/backend/internal/cache"
	"github.com/gogo-study/backend/internal/client"
	"github.com/gogo-study/backend/internal/config"
	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/handler"
	"github.com/gogo-study/backend/internal/model"
	"github.com/gogo-study/backend/internal/service"
	"github.com/gogo-study/backend/internal/token"
)

// @title GoGoStudy API
// @version 1.0
// @description Study-group management backend
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env는 로컬 개발 편의용, 없어도 무방
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres init failed: %v", err)
	}
	defer pool.Close()

	repo := db.New(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	store := cache.NewRedisStore(cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("redis init failed: %v", err)
	}

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessTTL)
	if err != nil {
		log.Fatalf("invalid JWT_ACCESS_TTL: %v", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.JWT.RefreshTTL)
	if err != nil {
		log.Fatalf("invalid JWT_REFRESH_TTL: %v", err)
	}
	codec, err := token.NewCodec(cfg.JWT.Secret, accessTTL, refreshTTL)
	if err != nil {
		log.Fatalf("token codec init failed: %v", err)
	}

	verifiers := make(map[model.Provider]service.TokenVerifier)
	if cfg.Google.ClientID != "" {
		google, err := client.NewGoogleVerifier(ctx, cfg.Google.ClientID)
		if err != nil {
			log.Fatalf("google verifier init failed: %v", err)
		}
		verifiers[model.ProviderGoogle] = google
	} else {
		log.Println("GOOGLE_CLIENT_ID not set, google login disabled")
	}
	if cfg.Firebase.ProjectID != "" {
		firebase, err := client.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID)
		if err != nil {
			log.Fatalf("firebase verifier init failed: %v", err)
		}
		verifiers[model.ProviderFirebase] = firebase
	} else {
		log.Println("FIREBASE_PROJECT_ID not set, firebase login disabled")
	}
	verifiers[model.ProviderKakao] = client.NewKakaoClient(cfg.Kakao.UserInfoURL)

	identitySvc := service.NewIdentityService(repo)
	authSvc := service.NewAuthService(repo, store, codec, identitySvc, verifiers)
	studySvc := service.NewStudyService(repo)
	userSvc := service.NewUserService(repo)
	adminSvc := service.NewAdminService(repo)

	authHandler := handler.NewAuthHandler(authSvc)
	studyHandler := handler.NewStudyHandler(studySvc)
	userHandler := handler.NewUserHandler(userSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials))

	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/social/:provider", authHandler.SocialLogin)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	authenticated := api.Group("")
	authenticated.Use(handler.Authenticate(authSvc))
	{
		authenticated.GET("/users/me", userHandler.Me)
		authenticated.GET("/users/me/studies", userHandler.MyStudies)
		authenticated.GET("/users/me/attendance", userHandler.MyAttendance)

		authenticated.POST("/studies", studyHandler.CreateStudy)
		authenticated.POST("/studies/:studyId/join", studyHandler.JoinStudy)
		authenticated.POST("/studies/:studyId/sessions/:sessionId/attendance", studyHandler.RecordAttendance)

		leader := authenticated.Group("")
		leader.Use(handler.RequireStudyLeader(studySvc))
		{
			leader.POST("/studies/:studyId/sessions", studyHandler.CreateSession)
			leader.GET("/studies/:studyId/attendance/summary", studyHandler.AttendanceSummary)
		}

		admin := authenticated.Group("/admin")
		admin.Use(handler.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/role", adminHandler.ChangeRole)
			admin.PATCH("/users/:id/deactivate", adminHandler.Deactivate)
			admin.GET("/users/:id/attendance", adminHandler.UserAttendance)
			admin.GET("/studies", adminHandler.Studies)
			admin.GET("/stats/overview", adminHandler.StatsOverview)
		}
	}

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
