package routes

import (
	"net/http"

	"CareBridge/controllers"
	"CareBridge/middleware"
	"CareBridge/models"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired controllers and the auth secret.
type Deps struct {
	Auth          *controllers.AuthController
	Doctors       *controllers.DoctorController
	Patients      *controllers.PatientController
	Consultations *controllers.ConsultationController
	Prescriptions *controllers.PrescriptionController
	Payments      *controllers.PaymentController
	JWTSecret     string
}

func Setup(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/doctor/signup", d.Auth.SignupDoctor)
		auth.POST("/patient/signup", d.Auth.SignupPatient)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/me", middleware.Auth(d.JWTSecret), d.Auth.Me)
	}

	// Gateway callbacks authenticate with a shared secret, not a session.
	api.POST("/payments/webhook", d.Payments.Webhook)

	session := middleware.Auth(d.JWTSecret)
	doctorOnly := middleware.RequireRole(models.RoleDoctor)
	patientOnly := middleware.RequireRole(models.RolePatient)

	doctors := api.Group("/doctors", session)
	{
		doctors.GET("", d.Doctors.List)
		doctors.GET("/profile", doctorOnly, d.Doctors.Profile)
		doctors.PATCH("/profile", doctorOnly, d.Doctors.UpdateProfile)
		doctors.GET("/consultations", doctorOnly, d.Doctors.Consultations)
		doctors.PATCH("/consultations/:id/acknowledge", doctorOnly, d.Doctors.Acknowledge)
	}

	patients := api.Group("/patients", session, patientOnly)
	{
		patients.GET("/profile", d.Patients.Profile)
		patients.PATCH("/profile", d.Patients.UpdateProfile)
	}

	consultations := api.Group("/consultations", session)
	{
		consultations.POST("", patientOnly, d.Consultations.Create)
		consultations.GET("/my-consultations", patientOnly, d.Consultations.MyConsultations)
		consultations.GET("/payment-qr", d.Consultations.PaymentQR)
		consultations.GET("/:id", d.Consultations.Get)
	}

	prescriptions := api.Group("/prescriptions", session)
	{
		prescriptions.POST("", doctorOnly, d.Prescriptions.Create)
		prescriptions.GET("/:id/generate-pdf", d.Prescriptions.GeneratePDF)
		prescriptions.GET("/consultation/:consultationId", d.Prescriptions.ListByConsultation)
		prescriptions.PUT("/:id", doctorOnly, d.Prescriptions.Update)
		prescriptions.DELETE("/:id", doctorOnly, d.Prescriptions.Delete)
	}
}
