package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviseai-backend/config"
	"reviseai-backend/internal/ai"
	"reviseai-backend/internal/generator"
	"reviseai-backend/internal/handlers"
	"reviseai-backend/internal/mailer"
	"reviseai-backend/internal/middleware"
	"reviseai-backend/internal/quota"
	"reviseai-backend/internal/repository"
	"reviseai-backend/internal/service"
	"reviseai-backend/pkg/cache"
	"reviseai-backend/pkg/database"
	"reviseai-backend/pkg/email"
	"reviseai-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	defer redisClient.Close()

	rabbitClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	log.Println("Connected to RabbitMQ")
	defer rabbitClient.Close()

	smtpClient := email.NewSMTPClient(&cfg.SMTP)
	log.Println("SMTP client initialized")

	db := pgClient.GetDB()

	aiClient := ai.NewClient(&cfg.AI)
	quizGenerator := generator.New(aiClient, nil)
	tracker := quota.NewTracker(repository.NewUserRepository(db))
	studyService := service.NewStudyService(db, service.NewSummaryCache(redisClient))

	authHandler := handlers.NewAuthHandler(db, studyService, cfg.Auth.JWTSecret)
	quizHandler := handlers.NewQuizHandler(quizGenerator, tracker)
	sessionHandler := handlers.NewSessionHandler(studyService)
	analyticsHandler := handlers.NewAnalyticsHandler(studyService)
	userHandler := handlers.NewUserHandler(db, tracker)
	contactHandler := handlers.NewContactHandler(rabbitClient)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "reviseai-backend",
		})
	})

	router.POST("/auth/login", authHandler.Login)
	router.POST("/contact", contactHandler.SendMessage)

	authGroup := router.Group("/auth")
	authGroup.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	{
		authGroup.GET("/me", authHandler.Me)
		authGroup.POST("/logout", authHandler.Logout)
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	{
		apiGroup.POST("/questions/generate", quizHandler.GenerateQuestions)

		apiGroup.POST("/sessions", sessionHandler.SaveSession)
		apiGroup.GET("/sessions", sessionHandler.ListSessions)
		apiGroup.GET("/sessions/:id/cards", sessionHandler.GetCards)
		apiGroup.DELETE("/sessions/:id", sessionHandler.DeleteSession)

		apiGroup.GET("/analytics/chart", analyticsHandler.ChartData)
		apiGroup.GET("/analytics/type-difficulty", analyticsHandler.TypeDifficulty)
		apiGroup.POST("/analytics/type-difficulty", analyticsHandler.TypeDifficultyFiltered)

		apiGroup.GET("/user/allowance", userHandler.Allowance)
		apiGroup.GET("/user/tier-info", userHandler.TierInfo)
		apiGroup.GET("/user/session-count", userHandler.SessionCount)
	}

	contactMailer := mailer.NewMailer(smtpClient, cfg.Contact.DestinationEmail)
	log.Println("Starting RabbitMQ consumers...")
	go consumeQueue(context.Background(), rabbitClient, mailer.ContactQueue, contactMailer.HandleContactMessage)

	addr := cfg.GetServerAddress()
	log.Printf("ReviseAI backend starting on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("ReviseAI backend stopped")
}

func consumeQueue(ctx context.Context, rabbitClient *messaging.RabbitMQClient, queueName string, handler func(context.Context, []byte) error) {
	msgs, err := rabbitClient.Consume(queueName)
	if err != nil {
		log.Printf("Failed to start consumer for queue %s: %v", queueName, err)
		return
	}

	log.Printf("Started consumer for queue: %s", queueName)

	for msg := range msgs {
		if err := handler(ctx, msg.Body); err != nil {
			log.Printf("Error handling message from %s: %v", queueName, err)
			msg.Nack(false, true)
		} else {
			msg.Ack(false)
		}
	}
}
