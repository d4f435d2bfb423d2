package controllers

import (
	"crypto/subtle"
	"net/http"

	"CareBridge/services"
	"CareBridge/utils"

	"github.com/gin-gonic/gin"
)

// PaymentController receives gateway callbacks. The webhook is authenticated
// with a shared secret rather than a user token.
type PaymentController struct {
	consultations *services.ConsultationService
	webhookSecret string
}

func NewPaymentController(consultations *services.ConsultationService, webhookSecret string) *PaymentController {
	return &PaymentController{consultations: consultations, webhookSecret: webhookSecret}
}

type webhookRequest struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// Webhook marks the matching consultation's payment completed once the
// gateway reports the transaction as successful.
func (pc *PaymentController) Webhook(c *gin.Context) {
	secret := c.GetHeader("X-Webhook-Secret")
	if pc.webhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(pc.webhookSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return
	}

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Status != "" && req.Status != "success" {
		// Only success notifications flip payment state.
		utils.Success(c, http.StatusOK, gin.H{"handled": false})
		return
	}

	if err := pc.consultations.ConfirmPayment(c.Request.Context(), req.TransactionID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"handled": true})
}
