package controllers

import (
	"mime/multipart"
	"net/http"

	"CareBridge/services"
	"CareBridge/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// currentUserID reads the authenticated account id stored by the auth
// middleware. Routes reaching here are behind that middleware, so a miss
// means a broken token rather than a missing one.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func openUpload(header *multipart.FileHeader) (multipart.File, error) {
	if header == nil {
		return nil, nil
	}
	return header.Open()
}

type doctorSignupRequest struct {
	Email             string `form:"email" json:"email"`
	Password          string `form:"password" json:"password"`
	Name              string `form:"name" json:"name"`
	Specialty         string `form:"specialty" json:"specialty"`
	PhoneNumber       string `form:"phoneNumber" json:"phoneNumber"`
	YearsOfExperience int    `form:"yearsOfExperience" json:"yearsOfExperience"`
}

func (ac *AuthController) SignupDoctor(c *gin.Context) {
	var req doctorSignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	header, _ := c.FormFile("profilePicture")
	file, err := openUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read profile picture"})
		return
	}
	if file != nil {
		defer file.Close()
	}

	in := services.DoctorSignupInput{
		Email:             req.Email,
		Password:          req.Password,
		Name:              req.Name,
		Specialty:         req.Specialty,
		PhoneNumber:       req.PhoneNumber,
		YearsOfExperience: req.YearsOfExperience,
	}
	if file != nil {
		in.ProfilePicture = file
	}

	token, user, err := ac.auth.SignupDoctor(c.Request.Context(), in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{"token": token, "user": user})
}

type patientSignupRequest struct {
	Email            string `form:"email" json:"email"`
	Password         string `form:"password" json:"password"`
	Name             string `form:"name" json:"name"`
	Age              int    `form:"age" json:"age"`
	PhoneNumber      string `form:"phoneNumber" json:"phoneNumber"`
	HistoryOfSurgery string `form:"historyOfSurgery" json:"historyOfSurgery"`
	HistoryOfIllness string `form:"historyOfIllness" json:"historyOfIllness"`
}

func (ac *AuthController) SignupPatient(c *gin.Context) {
	var req patientSignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	header, _ := c.FormFile("profilePicture")
	file, err := openUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read profile picture"})
		return
	}
	if file != nil {
		defer file.Close()
	}

	in := services.PatientSignupInput{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Name,
		Age:              req.Age,
		PhoneNumber:      req.PhoneNumber,
		HistoryOfSurgery: req.HistoryOfSurgery,
		HistoryOfIllness: req.HistoryOfIllness,
	}
	if file != nil {
		in.ProfilePicture = file
	}

	token, user, err := ac.auth.SignupPatient(c.Request.Context(), in)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, user, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"token": token, "user": user})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := ac.auth.Me(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"user": user})
}
