package main

import (
	"log"
	"os"

	_ "peopleops/api/swagger" // swagger docs
	"peopleops/internal/database"
	"peopleops/internal/handler"
	"peopleops/internal/middleware"
	"peopleops/internal/notify"
	"peopleops/internal/repository"
	"peopleops/internal/service"
	"peopleops/internal/websocket"
	"peopleops/pkg/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           People Ops API
// @version         1.0
// @description     Leave, time tracking and project allocation backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger := logging.New()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logger.WithError(err).Fatal("Database connection failed")
	}
	logger.Info("Connected to PostgreSQL successfully")

	// Set up WebSocket Hub and the workflow event publisher
	wsHub := websocket.NewHub()
	go wsHub.Run()
	events := notify.NewHubPublisher(wsHub, logger)

	// Set up dependencies (Repository -> Service -> Handler)
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	wbsRepo := repository.NewWBSRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	balanceRepo := repository.NewLeaveBalanceRepository(db)
	leaveRepo := repository.NewLeaveRequestRepository(db)
	entryRepo := repository.NewTimeEntryRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditRecorder := service.NewAuditRecorder(auditRepo, logger)
	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(userRepo, employeeRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	holidayService := service.NewHolidayService(holidayRepo)
	allocationService := service.NewAllocationService(wbsRepo, projectRepo, txm, auditRecorder)
	projectService := service.NewProjectService(projectRepo, wbsRepo, employeeRepo, holidayRepo, txm, auditRecorder)
	balanceService := service.NewBalanceService(balanceRepo, txm, auditRecorder)
	timeEntryService := service.NewTimeEntryService(entryRepo, projectRepo, wbsRepo, allocationService, txm, auditRecorder, events)
	leaveService := service.NewLeaveService(
		leaveRepo, employeeRepo, projectRepo, wbsRepo, entryRepo,
		balanceService, holidayService, allocationService,
		txm, auditRecorder, events,
	)
	summaryService := service.NewSummaryService(projectRepo, entryRepo, holidayService)
	payrollService := service.NewPayrollService(leaveRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	projectHandler := handler.NewProjectHandler(projectService, allocationService)
	holidayHandler := handler.NewHolidayHandler(holidayService)
	leaveHandler := handler.NewLeaveHandler(leaveService, balanceService)
	timeEntryHandler := handler.NewTimeEntryHandler(timeEntryService)
	summaryHandler := handler.NewSummaryHandler(summaryService, payrollService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	projectHandler.RegisterRoutes(api)
	holidayHandler.RegisterRoutes(api)
	leaveHandler.RegisterRoutes(api)
	timeEntryHandler.RegisterRoutes(api)
	summaryHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.WithField("port", port).Info("Server listening")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}
