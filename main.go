package main

import (
	"context"
	"log"
	"time"

	"CareBridge/cache"
	"CareBridge/config"
	"CareBridge/controllers"
	"CareBridge/jobs"
	"CareBridge/repository"
	"CareBridge/routes"
	"CareBridge/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.NewConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	client, db, err := config.ConnectMongo(cfg)
	if err != nil {
		log.Fatal("Error connecting to MongoDB: ", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Println("Error disconnecting from MongoDB:", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatal("Error creating indexes: ", err)
	}
	cancel()

	stores := repository.NewMongoStores(client, db)
	redisCache := cache.New(cfg.RedisURL)

	var storage services.Storage
	if cfg.CloudinaryURL != "" {
		storage, err = services.NewCloudinaryStorage(cfg.CloudinaryURL)
		if err != nil {
			log.Fatal("Error configuring Cloudinary: ", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set, object storage disabled")
		storage = services.NewDisabledStorage()
	}

	var verifier services.PaymentVerifier = services.TrustingVerifier{}
	if cfg.PaymentGatewayURL != "" {
		verifier = services.NewGatewayVerifier(cfg.PaymentGatewayURL, cfg.PaymentWebhookSecret)
	}

	authService := services.NewAuthService(stores, storage, redisCache, cfg.JWTSecret)
	doctorService := services.NewDoctorService(stores, storage, redisCache)
	patientService := services.NewPatientService(stores, storage)
	consultationService := services.NewConsultationService(stores, verifier)
	prescriptionService := services.NewPrescriptionService(stores, services.NewPDFRenderer(), storage, cfg.PDFUploadPolicy)

	r := gin.Default()
	r.Use(config.CORSMiddleware(cfg))

	routes.Setup(r, routes.Deps{
		Auth:          controllers.NewAuthController(authService),
		Doctors:       controllers.NewDoctorController(doctorService, consultationService),
		Patients:      controllers.NewPatientController(patientService),
		Consultations: controllers.NewConsultationController(consultationService, cfg),
		Prescriptions: controllers.NewPrescriptionController(prescriptionService),
		Payments:      controllers.NewPaymentController(consultationService, cfg.PaymentWebhookSecret),
		JWTSecret:     cfg.JWTSecret,
	})

	scheduler := jobs.NewScheduler(prescriptionService, stores.Consultations)
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Server starting on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Error starting server: ", err)
	}
}
