package app

import (
	"database/sql"
	"fmt"
	"log"

	"pipecrm/internal/config"
	"pipecrm/internal/handlers"
	"pipecrm/internal/pdf"
	"pipecrm/internal/realtime"
	"pipecrm/internal/repositories"
	"pipecrm/internal/routes"
	"pipecrm/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "pipecrm/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	if err := repositories.RunMigrations(db); err != nil {
		log.Fatal("Ошибка миграции: ", err)
	}

	// === Repos ===
	companyRepo := repositories.NewCompanyRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	dealRepo := repositories.NewDealRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	attachmentRepo := repositories.NewAttachmentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// === Services ===
	// почта и Telegram опциональны: без настроек планировщик
	// ограничивается пометкой seen
	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	var pusher services.Pusher
	if cfg.Telegram.BotToken != "" {
		notifier, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("Telegram недоступен: %v", err)
		} else {
			pusher = notifier
		}
	}

	hub := realtime.NewNotificationHub()

	companyService := services.NewCompanyService(companyRepo)
	contactService := services.NewContactService(contactRepo)
	dealService := services.NewDealService(dealRepo)
	leadService := services.NewLeadService(leadRepo)
	activityService := services.NewActivityService(activityRepo)
	searchService := services.NewSearchService(companyRepo, contactRepo, dealRepo)
	exportService := services.NewExportService(companyRepo, contactRepo, dealRepo, leadRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, cfg.Files.RootDir)
	notificationService := services.NewNotificationService(notificationRepo, hub, emailService, pusher)

	scheduler := services.NewScheduler(notificationService)
	scheduler.Start()
	defer scheduler.Stop()

	pdfGen := pdf.NewReportGenerator()

	// === Handlers ===
	companyHandler := handlers.NewCompanyHandler(companyService)
	contactHandler := handlers.NewContactHandler(contactService)
	dealHandler := handlers.NewDealHandler(dealService)
	leadHandler := handlers.NewLeadHandler(leadService)
	activityHandler := handlers.NewActivityHandler(activityService)
	searchHandler := handlers.NewSearchHandler(searchService)
	reportHandler := handlers.NewReportHandler(dealService, pdfGen)
	exportHandler := handlers.NewExportHandler(exportService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, hub)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		companyHandler,
		contactHandler,
		dealHandler,
		leadHandler,
		activityHandler,
		searchHandler,
		reportHandler,
		exportHandler,
		attachmentHandler,
		notificationHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
