package config

import (
	"os"
	"strconv"
	"strings"
)

// Upload policies for publishing rendered prescription documents. Degrade
// keeps the request alive when object storage is down and hands the rendered
// bytes back anyway; strict surfaces the storage failure to the caller.
const (
	UploadPolicyDegrade = "degrade"
	UploadPolicyStrict  = "strict"
)

type Config struct {
	Port                 string
	Environment          string
	MongoURI             string
	MongoDatabase        string
	JWTSecret            string
	AllowedOrigins       []string
	CloudinaryURL        string
	RedisURL             string
	PaymentGatewayURL    string
	PaymentWebhookSecret string
	PDFUploadPolicy      string
	ConsultationFee      int
	UPIID                string
}

func NewConfig() *Config {
	allowedOrigins := []string{"http://localhost:3000"}
	if s := os.Getenv("ALLOWED_ORIGINS"); s != "" {
		allowedOrigins = strings.Split(s, ",")
	}

	policy := getEnvOrDefault("PDF_UPLOAD_POLICY", UploadPolicyDegrade)
	if policy != UploadPolicyStrict {
		policy = UploadPolicyDegrade
	}

	return &Config{
		Port:                 getEnvOrDefault("PORT", "5000"),
		Environment:          getEnvOrDefault("ENVIRONMENT", "development"),
		MongoURI:             getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnvOrDefault("MONGODB_DATABASE", "carebridge"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AllowedOrigins:       allowedOrigins,
		CloudinaryURL:        os.Getenv("CLOUDINARY_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		PaymentGatewayURL:    os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PDFUploadPolicy:      policy,
		ConsultationFee:      getEnvIntOrDefault("CONSULTATION_FEE", 500),
		UPIID:                getEnvOrDefault("UPI_ID", "doctor@upi"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
