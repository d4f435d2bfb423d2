package services

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const tokenValidity = 90 * 24 * time.Hour

// LoginLimiter throttles repeated failed logins per email. A nil limiter
// disables throttling.
type LoginLimiter interface {
	Locked(ctx context.Context, email string) bool
	RegisterFailure(ctx context.Context, email string) bool
	Clear(ctx context.Context, email string)
}

type AuthService struct {
	users     repository.UserStore
	doctors   repository.DoctorStore
	patients  repository.PatientStore
	storage   Storage
	limiter   LoginLimiter
	jwtSecret string
}

func NewAuthService(stores *repository.Stores, storage Storage, limiter LoginLimiter, jwtSecret string) *AuthService {
	return &AuthService{
		users:     stores.Users,
		doctors:   stores.Doctors,
		patients:  stores.Patients,
		storage:   storage,
		limiter:   limiter,
		jwtSecret: jwtSecret,
	}
}

// AuthenticatedUser is the identity snapshot returned after signup, login
// and /me lookups.
type AuthenticatedUser struct {
	ID      string      `json:"id"`
	Email   string      `json:"email"`
	Role    string      `json:"role"`
	Profile interface{} `json:"profile"`
}

type DoctorSignupInput struct {
	Email             string
	Password          string
	Name              string
	Specialty         string
	PhoneNumber       string
	YearsOfExperience int
	ProfilePicture    io.Reader
}

type PatientSignupInput struct {
	Email            string
	Password         string
	Name             string
	Age              int
	PhoneNumber      string
	HistoryOfSurgery string
	HistoryOfIllness string
	ProfilePicture   io.Reader
}

func (s *AuthService) SignupDoctor(ctx context.Context, in DoctorSignupInput) (string, *AuthenticatedUser, error) {
	var errs []string
	if strings.TrimSpace(in.Email) == "" {
		errs = append(errs, "Email is required")
	}
	if in.Password == "" {
		errs = append(errs, "Password is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if strings.TrimSpace(in.Specialty) == "" {
		errs = append(errs, "Specialty is required")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		errs = append(errs, "Phone number is required")
	}
	if len(errs) > 0 {
		return "", nil, &utils.ValidationError{Errors: errs}
	}

	if err := s.checkAvailability(ctx, in.Email, func() (bool, error) {
		return s.doctors.PhoneExists(ctx, in.PhoneNumber)
	}); err != nil {
		return "", nil, err
	}

	imageURL, err := s.uploadProfilePicture(ctx, in.ProfilePicture, "doctor-profiles")
	if err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{Email: in.Email, Password: string(hash), Role: models.RoleDoctor}
	doctor := &models.Doctor{
		ProfilePicture:    imageURL,
		Name:              in.Name,
		Specialty:         in.Specialty,
		PhoneNumber:       in.PhoneNumber,
		YearsOfExperience: in.YearsOfExperience,
	}
	if err := s.users.CreateWithDoctor(ctx, user, doctor); err != nil {
		return "", nil, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, snapshot(user, doctor), nil
}

func (s *AuthService) SignupPatient(ctx context.Context, in PatientSignupInput) (string, *AuthenticatedUser, error) {
	var errs []string
	if strings.TrimSpace(in.Email) == "" {
		errs = append(errs, "Email is required")
	}
	if in.Password == "" {
		errs = append(errs, "Password is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		errs = append(errs, "Phone number is required")
	}
	if len(errs) > 0 {
		return "", nil, &utils.ValidationError{Errors: errs}
	}

	if err := s.checkAvailability(ctx, in.Email, func() (bool, error) {
		return s.patients.PhoneExists(ctx, in.PhoneNumber)
	}); err != nil {
		return "", nil, err
	}

	imageURL, err := s.uploadProfilePicture(ctx, in.ProfilePicture, "patient-profiles")
	if err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{Email: in.Email, Password: string(hash), Role: models.RolePatient}
	patient := &models.Patient{
		ProfilePicture:   imageURL,
		Name:             in.Name,
		Age:              in.Age,
		PhoneNumber:      in.PhoneNumber,
		HistoryOfSurgery: splitHistory(in.HistoryOfSurgery),
		HistoryOfIllness: splitHistory(in.HistoryOfIllness),
	}
	if err := s.users.CreateWithPatient(ctx, user, patient); err != nil {
		return "", nil, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, snapshot(user, patient), nil
}

func (s *AuthService) checkAvailability(ctx context.Context, email string, phoneExists func() (bool, error)) error {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return utils.Duplicate("Email")
	}
	taken, err := phoneExists()
	if err != nil {
		return err
	}
	if taken {
		return utils.Duplicate("Phone number")
	}
	return nil
}

func (s *AuthService) uploadProfilePicture(ctx context.Context, file io.Reader, folder string) (string, error) {
	if file == nil {
		return "", nil
	}
	url, err := s.storage.UploadImage(ctx, file, folder)
	if err != nil {
		return "", utils.Upstream("profile image upload", err)
	}
	return url, nil
}

// Login verifies credentials. The failure is deliberately undifferentiated:
// an unknown email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *AuthenticatedUser, error) {
	if s.limiter != nil && s.limiter.Locked(ctx, email) {
		return "", nil, utils.ErrAccountLocked
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFound(err) {
			s.registerFailure(ctx, email)
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.registerFailure(ctx, email)
		return "", nil, utils.ErrInvalidCredentials
	}

	if s.limiter != nil {
		s.limiter.Clear(ctx, email)
	}

	profile, err := s.profileFor(ctx, user)
	if err != nil {
		return "", nil, err
	}
	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, snapshot(user, profile), nil
}

func (s *AuthService) registerFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if s.limiter.RegisterFailure(ctx, email) {
		log.Println("Account locked after repeated failed logins:", email)
	}
}

// Me resolves the current identity with its profile attached.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*AuthenticatedUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return snapshot(user, profile), nil
}

func (s *AuthService) profileFor(ctx context.Context, user *models.User) (interface{}, error) {
	switch user.Role {
	case models.RoleDoctor:
		return s.doctors.FindByUserID(ctx, user.ID)
	case models.RolePatient:
		return s.patients.FindByUserID(ctx, user.ID)
	default:
		return nil, nil
	}
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   user.ID.Hex(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenValidity).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func snapshot(user *models.User, profile interface{}) *AuthenticatedUser {
	return &AuthenticatedUser{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		Role:    user.Role,
		Profile: profile,
	}
}

// splitHistory turns the comma-separated history input into a trimmed list.
func splitHistory(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			items = append(items, t)
		}
	}
	return items
}
