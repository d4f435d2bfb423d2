package controllers

import (
	"net/http"

	"CareBridge/config"
	"CareBridge/services"
	"CareBridge/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConsultationController struct {
	consultations *services.ConsultationService
	cfg           *config.Config
}

func NewConsultationController(consultations *services.ConsultationService, cfg *config.Config) *ConsultationController {
	return &ConsultationController{consultations: consultations, cfg: cfg}
}

func (cc *ConsultationController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var in services.ConsultationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	consultation, err := cc.consultations.Create(c.Request.Context(), userID, in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{"consultation": consultation})
}

// MyConsultations lists the calling patient's bookings.
func (cc *ConsultationController) MyConsultations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	consultations, err := cc.consultations.ListForPatient(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"consultations": consultations})
}

func (cc *ConsultationController) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid consultation ID"})
		return
	}
	consultation, err := cc.consultations.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"consultation": consultation})
}

// PaymentQR serves the UPI payment QR shown on the booking form.
func (cc *ConsultationController) PaymentQR(c *gin.Context) {
	qr, err := services.GenerateUPIQR(cc.cfg.UPIID, cc.cfg.ConsultationFee)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"qrCode": qr, "amount": cc.cfg.ConsultationFee, "upiId": cc.cfg.UPIID})
}
