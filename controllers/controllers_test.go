package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"CareBridge/config"
	"CareBridge/controllers"
	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/routes"
	"CareBridge/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubStorage struct{}

func (stubStorage) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	return "https://cdn.example.com/" + folder + "/image.png", nil
}

func (stubStorage) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	return "https://cdn.example.com/prescriptions/" + publicID + ".pdf", nil
}

type stubRenderer struct{}

func (stubRenderer) RenderPrescription(doc services.PrescriptionDocument) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:            testSecret,
		PaymentWebhookSecret: "hook-secret",
		PDFUploadPolicy:      config.UploadPolicyDegrade,
		ConsultationFee:      500,
		UPIID:                "doctor@upi",
	}
	stores := repository.NewMemoryStores()
	storage := stubStorage{}

	authService := services.NewAuthService(stores, storage, nil, cfg.JWTSecret)
	doctorService := services.NewDoctorService(stores, storage, nil)
	patientService := services.NewPatientService(stores, storage)
	consultationService := services.NewConsultationService(stores, services.TrustingVerifier{})
	prescriptionService := services.NewPrescriptionService(stores, stubRenderer{}, storage, cfg.PDFUploadPolicy)

	r := gin.New()
	routes.Setup(r, routes.Deps{
		Auth:          controllers.NewAuthController(authService),
		Doctors:       controllers.NewDoctorController(doctorService, consultationService),
		Patients:      controllers.NewPatientController(patientService),
		Consultations: controllers.NewConsultationController(consultationService, cfg),
		Prescriptions: controllers.NewPrescriptionController(prescriptionService),
		Payments:      controllers.NewPaymentController(consultationService, cfg.PaymentWebhookSecret),
		JWTSecret:     cfg.JWTSecret,
	})
	return r
}

func doForm(r *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func signupDoctor(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doForm(r, http.MethodPost, "/api/auth/doctor/signup", "", url.Values{
		"email":             {"drjones@example.com"},
		"password":          {"secret123"},
		"name":              {"Dr. Jones"},
		"specialty":         {"Cardiology"},
		"phoneNumber":       {"9876543210"},
		"yearsOfExperience": {"12"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func signupPatient(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doForm(r, http.MethodPost, "/api/auth/patient/signup", "", url.Values{
		"email":       {"asha@example.com"},
		"password":    {"secret123"},
		"name":        {"Asha"},
		"age":         {"34"},
		"phoneNumber": {"9123456780"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)
	w := doJSON(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestConsultationFlow walks the full journey: both parties sign up, the
// patient books against the doctor directory, the doctor acknowledges and
// prescribes, and the patient downloads the document.
func TestConsultationFlow(t *testing.T) {
	r := newTestServer(t)
	doctorToken := signupDoctor(t, r)
	patientToken := signupPatient(t, r)

	// patient browses the directory
	w := doJSON(r, http.MethodGet, "/api/doctors", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doctors := decode(t, w)["doctors"].([]interface{})
	require.Len(t, doctors, 1)
	doctorID := doctors[0].(map[string]interface{})["id"].(string)

	// payment QR for the booking form
	w = doJSON(r, http.MethodGet, "/api/consultations/payment-qr", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["qrCode"].(string), "data:image/png;base64,")

	// book
	w = doJSON(r, http.MethodPost, "/api/consultations", patientToken, gin.H{
		"doctor":                doctorID,
		"currentIllnessHistory": "Persistent chest pain",
		"familyMedicalHistory":  gin.H{"diabetics": "Non-Diabetic"},
		"payment":               gin.H{"transactionId": "TXN123"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	consultation := decode(t, w)["consultation"].(map[string]interface{})
	consultationID := consultation["id"].(string)
	assert.Equal(t, models.ConsultationPending, consultation["status"])

	// the doctor sees the booking with the patient attached
	w = doJSON(r, http.MethodGet, "/api/doctors/consultations", doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assigned := decode(t, w)["consultations"].([]interface{})
	require.Len(t, assigned, 1)
	assert.Equal(t, "Asha", assigned[0].(map[string]interface{})["patientProfile"].(map[string]interface{})["name"])

	// acknowledge
	w = doJSON(r, http.MethodPatch, "/api/doctors/consultations/"+consultationID+"/acknowledge", doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ConsultationInProgress,
		decode(t, w)["consultation"].(map[string]interface{})["status"])

	// prescribe
	w = doJSON(r, http.MethodPost, "/api/prescriptions", doctorToken, gin.H{
		"consultation":  consultationID,
		"careToBeTaken": "Bed rest for three days",
		"medicines": []gin.H{
			{"name": "Paracetamol", "dosage": "500mg", "frequency": "twice a day", "duration": "5 days"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	prescriptionID := decode(t, w)["prescription"].(map[string]interface{})["id"].(string)

	// prescribing completed the consultation
	w = doJSON(r, http.MethodGet, "/api/consultations/"+consultationID, patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ConsultationCompleted,
		decode(t, w)["consultation"].(map[string]interface{})["status"])

	// download the rendered document
	w = doJSON(r, http.MethodGet, "/api/prescriptions/"+prescriptionID+"/generate-pdf?download=true", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "prescription-"+prescriptionID+".pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// and the published URL variant
	w = doJSON(r, http.MethodGet, "/api/prescriptions/consultation/"+consultationID, doctorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	prescriptions := decode(t, w)["prescriptions"].([]interface{})
	require.Len(t, prescriptions, 1)
}

func TestSignupValidationEnvelope(t *testing.T) {
	r := newTestServer(t)
	w := doForm(r, http.MethodPost, "/api/auth/doctor/signup", "", url.Values{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "fail", body["status"])
	assert.NotEmpty(t, body["errors"])
}

func TestLoginAndMe(t *testing.T) {
	r := newTestServer(t)
	signupPatient(t, r)

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = doJSON(r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", user["email"])
	assert.Equal(t, models.RolePatient, user["role"])
}

func TestLoginBadPassword(t *testing.T) {
	r := newTestServer(t)
	signupPatient(t, r)

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "asha@example.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode(t, w)["message"])
}

func TestRoleGuards(t *testing.T) {
	r := newTestServer(t)
	doctorToken := signupDoctor(t, r)
	patientToken := signupPatient(t, r)

	// a patient cannot prescribe
	w := doJSON(r, http.MethodPost, "/api/prescriptions", patientToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// a doctor cannot book
	w = doJSON(r, http.MethodPost, "/api/consultations", doctorToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// anonymous requests bounce
	w = doJSON(r, http.MethodGet, "/api/doctors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileUpdate(t *testing.T) {
	r := newTestServer(t)
	doctorToken := signupDoctor(t, r)

	w := doForm(r, http.MethodPatch, "/api/doctors/profile", doctorToken, url.Values{
		"specialty":         {"Interventional Cardiology"},
		"yearsOfExperience": {"13"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doctor := decode(t, w)["doctor"].(map[string]interface{})
	assert.Equal(t, "Interventional Cardiology", doctor["specialty"])
	assert.Equal(t, float64(13), doctor["yearsOfExperience"])

	// name untouched
	assert.Equal(t, "Dr. Jones", doctor["name"])
}

func TestPaymentWebhook(t *testing.T) {
	r := newTestServer(t)
	doctorToken := signupDoctor(t, r)
	patientToken := signupPatient(t, r)
	_ = doctorToken

	w := doJSON(r, http.MethodGet, "/api/doctors", patientToken, nil)
	doctorID := decode(t, w)["doctors"].([]interface{})[0].(map[string]interface{})["id"].(string)

	w = doJSON(r, http.MethodPost, "/api/consultations", patientToken, gin.H{
		"doctor":                doctorID,
		"currentIllnessHistory": "Cough",
		"familyMedicalHistory":  gin.H{"diabetics": "Non-Diabetic"},
		"payment":               gin.H{"transactionId": "TXN999"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// wrong secret rejected
	w = httptest.NewRecorder()
	raw, _ := json.Marshal(gin.H{"transactionId": "TXN999", "status": "success"})
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// right secret confirms
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "hook-secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
