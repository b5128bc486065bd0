package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/stadtlabs/konzeptvergabe/internal/config"
	"github.com/stadtlabs/konzeptvergabe/internal/domain/fiber/handler"
	"github.com/stadtlabs/konzeptvergabe/internal/middleware"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/repository"
	"github.com/stadtlabs/konzeptvergabe/internal/scheduler"
	"github.com/stadtlabs/konzeptvergabe/internal/service"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	authConfig := config.LoadAuthConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	// Use middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: config.LoadAppConfig().Env != "production",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return config.LoadAppConfig().Env != "production"
		},
	}))
	app.Use(healthcheck.New())

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	candidatureRepo := repository.NewCandidatureRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	parcelRepo := repository.NewParcelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	lockRepo := repository.NewJobLockRepository(db)

	blobs := service.NewDiskStorage()
	mailer := service.NewMailService()

	authUC := usecase.NewAuthUsecase(userRepo, notificationRepo,
		authConfig.JWTSecret, authConfig.TokenTTL, authConfig.ResetTTL)
	assignmentUC := usecase.NewAssignmentUsecase(assignmentRepo, attachmentRepo, parcelRepo, blobs)
	candidatureUC := usecase.NewCandidatureUsecase(candidatureRepo, assignmentRepo, attachmentRepo, blobs)
	messagingUC := usecase.NewMessagingUsecase(messageRepo, candidatureRepo, attachmentRepo, blobs)

	handler.NewAuthHandler(authUC).RegisterRoutes(app)
	handler.NewPublicHandler(assignmentUC).RegisterRoutes(app)
	handler.NewAdminAssignmentHandler(assignmentUC).RegisterRoutes(app)
	handler.NewAdminCandidatureHandler(candidatureUC).RegisterRoutes(app)
	handler.NewCandidateHandler(candidatureUC).RegisterRoutes(app)
	handler.NewMessagingHandler(messagingUC).RegisterRoutes(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := scheduler.New(config.LoadSchedulerConfig(),
		lockRepo, assignmentRepo, notificationRepo, userRepo, mailer)
	jobs.Start(ctx)

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Europe/Berlin",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	// TranslateError turns unique violations into gorm.ErrDuplicatedKey,
	// which the repositories map to conflict errors.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.UserData{},
		&model.PasswordReset{},
		&model.ConceptAssignment{},
		&model.Parcel{},
		&model.Question{},
		&model.Candidature{},
		&model.Attachment{},
		&model.Message{},
		&model.Notification{},
		&model.JobLock{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
