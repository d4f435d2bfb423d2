package controllers

import (
	"fmt"
	"net/http"

	"CareBridge/models"
	"CareBridge/services"
	"CareBridge/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrescriptionController struct {
	prescriptions *services.PrescriptionService
}

func NewPrescriptionController(prescriptions *services.PrescriptionService) *PrescriptionController {
	return &PrescriptionController{prescriptions: prescriptions}
}

func (pc *PrescriptionController) Create(c *gin.Context) {
	var in services.PrescriptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	prescription, err := pc.prescriptions.Create(c.Request.Context(), in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{"prescription": prescription})
}

// GeneratePDF renders the prescription document and publishes it. With
// ?download=true the PDF bytes stream back directly; otherwise the response
// carries the published URL.
func (pc *PrescriptionController) GeneratePDF(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prescription ID"})
		return
	}

	result, err := pc.prescriptions.RenderAndPublish(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=prescription-%s.pdf", id.Hex()))
		c.Data(http.StatusOK, "application/pdf", result.PDF)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{
		"prescription": result.Prescription,
		"pdfUrl":       result.URL,
		"uploaded":     result.Uploaded,
	})
}

// ListByConsultation returns the prescriptions written for one consultation.
func (pc *PrescriptionController) ListByConsultation(c *gin.Context) {
	consultationID, err := primitive.ObjectIDFromHex(c.Param("consultationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid consultation ID"})
		return
	}
	prescriptions, err := pc.prescriptions.ListForConsultation(c.Request.Context(), consultationID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"prescriptions": prescriptions})
}

type prescriptionUpdateRequest struct {
	CareToBeTaken *string           `json:"careToBeTaken"`
	Medicines     []models.Medicine `json:"medicines"`
}

func (pc *PrescriptionController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prescription ID"})
		return
	}

	var req prescriptionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	prescription, err := pc.prescriptions.Update(c.Request.Context(), id, models.PrescriptionUpdate{
		CareToBeTaken: req.CareToBeTaken,
		Medicines:     req.Medicines,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"prescription": prescription})
}

func (pc *PrescriptionController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid prescription ID"})
		return
	}
	if err := pc.prescriptions.Delete(c.Request.Context(), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"deleted": true})
}
