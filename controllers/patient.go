package controllers

import (
	"net/http"
	"strconv"

	"CareBridge/services"
	"CareBridge/utils"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	patients *services.PatientService
}

func NewPatientController(patients *services.PatientService) *PatientController {
	return &PatientController{patients: patients}
}

func (pc *PatientController) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	patient, err := pc.patients.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"patient": patient})
}

func (pc *PatientController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var in services.UpdatePatientInput
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("age"); ok {
		age, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Age must be a number"})
			return
		}
		in.Age = &age
	}
	if v, ok := c.GetPostForm("phoneNumber"); ok {
		in.PhoneNumber = &v
	}
	if v, ok := c.GetPostForm("historyOfSurgery"); ok {
		in.HistoryOfSurgery = &v
	}
	if v, ok := c.GetPostForm("historyOfIllness"); ok {
		in.HistoryOfIllness = &v
	}

	header, _ := c.FormFile("profilePicture")
	file, err := openUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read profile picture"})
		return
	}
	if file != nil {
		defer file.Close()
		in.ProfilePicture = file
	}

	patient, err := pc.patients.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"patient": patient})
}
