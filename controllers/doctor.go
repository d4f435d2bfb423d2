package controllers

import (
	"net/http"
	"strconv"

	"CareBridge/services"
	"CareBridge/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorController struct {
	doctors       *services.DoctorService
	consultations *services.ConsultationService
}

func NewDoctorController(doctors *services.DoctorService, consultations *services.ConsultationService) *DoctorController {
	return &DoctorController{doctors: doctors, consultations: consultations}
}

// List is the public doctor directory shown before booking.
func (dc *DoctorController) List(c *gin.Context) {
	doctors, err := dc.doctors.List(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"doctors": doctors})
}

func (dc *DoctorController) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	doctor, err := dc.doctors.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"doctor": doctor})
}

func (dc *DoctorController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var in services.UpdateDoctorInput
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("specialty"); ok {
		in.Specialty = &v
	}
	if v, ok := c.GetPostForm("phoneNumber"); ok {
		in.PhoneNumber = &v
	}
	if v, ok := c.GetPostForm("yearsOfExperience"); ok {
		years, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Years of experience must be a number"})
			return
		}
		in.YearsOfExperience = &years
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

	doctor, err := dc.doctors.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"doctor": doctor})
}

// Consultations lists the bookings assigned to the calling doctor.
func (dc *DoctorController) Consultations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	consultations, err := dc.consultations.ListForDoctor(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"consultations": consultations})
}

// Acknowledge marks a pending consultation as being attended to.
func (dc *DoctorController) Acknowledge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	consultationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid consultation ID"})
		return
	}

	consultation, err := dc.consultations.Acknowledge(c.Request.Context(), userID, consultationID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"consultation": consultation})
}
