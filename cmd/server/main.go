package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/api/handlers"
	"github.com/maheshrc27/postpilot/internal/api/middleware"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/platform"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/robfig/cron"
)

const staleClaimThreshold = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	accountRepo := repository.NewConnectedAccountRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	registry := platform.NewRegistry(
		platform.NewInstagramPublisher(),
		platform.NewLinkedinPublisher(),
		platform.NewFacebookPublisher(),
		platform.NewXPublisher(),
	)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	r2Service := service.NewR2Service(*cfg)
	postService := service.NewPostService(postRepo, accountRepo, mediaAssetRepo)
	accountService := service.NewAccountService(*cfg, accountRepo)
	mediaService := service.NewMediaService(mediaAssetRepo, r2Service)
	publisherService := service.NewPublisherService(*cfg, postRepo, accountRepo, mediaAssetRepo, registry)
	brandService := service.NewBrandService(brandRepo)
	aiService := service.NewAIService(*cfg, brandRepo, subscriptionRepo, mediaAssetRepo, r2Service)
	subscriptionService := service.NewSubscriptionService(*cfg, subscriptionRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Get("/logout", auth.Logout)

	account := handlers.NewAccountHandler(*cfg, accountService)
	app.Get("/auth/:platform", account.AddSocialAccount)
	app.Get("/auth/:platform/callback", account.CallbackHandler)

	payment := handlers.NewPaymentHandler(subscriptionService)
	app.Post("/webhooks/payment", payment.PaymentWebhook)

	// The sweep claims each due post before enqueueing it, so the worker
	// never races another dispatcher for the same post.
	sweepJob := job.NewSweepJob(postRepo, func(postID int64) error {
		return queue.EnqueuePost(client, queue.PublishPostPayload{PostID: postID})
	}, cfg.SweepBatchSize)
	reclaimJob := job.NewReclaimJob(postRepo, staleClaimThreshold, cfg.MaxPublishAttempts)
	creditResetJob := job.NewCreditResetJob(subscriptionRepo)

	sweep := handlers.NewSweepHandler(*cfg, sweepJob, reclaimJob)
	app.Post("/internal/sweep", sweep.RunSweep)
	app.Post("/internal/reclaim", sweep.RunReclaim)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.DeleteUser)

	post := handlers.NewPostHandler(postService, publisherService)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/publish", post.PublishNow)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Post("/posts/remove", post.DeletePost)

	api.Post("/accounts/connect", account.ConnectWithToken)
	api.Get("/accounts", account.ListSocialAccounts)
	api.Post("/accounts/remove", account.DeleteSocialAccount)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)
	api.Get("/media/:id", media.GetAsset)

	brand := handlers.NewBrandHandler(brandService)
	api.Post("/brand/save", brand.SaveProfile)
	api.Get("/brand", brand.GetProfile)

	ai := handlers.NewAIHandler(aiService)
	api.Post("/ai/text", ai.GenerateText)
	api.Post("/ai/image", ai.GenerateImage)

	api.Get("/subscription", payment.GetSubscription)

	queueW := queue.NewQueue(publisherService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", sweepJob.Run)
	c.AddFunc("@every 00h05m00s", reclaimJob.Run)
	c.AddFunc("@daily", creditResetJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ServerAddr)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
