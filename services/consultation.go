package services

import (
	"context"
	"log"
	"strings"

	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConsultationService struct {
	consultations repository.ConsultationStore
	doctors       repository.DoctorStore
	patients      repository.PatientStore
	verifier      PaymentVerifier
}

func NewConsultationService(stores *repository.Stores, verifier PaymentVerifier) *ConsultationService {
	return &ConsultationService{
		consultations: stores.Consultations,
		doctors:       stores.Doctors,
		patients:      stores.Patients,
		verifier:      verifier,
	}
}

type ConsultationInput struct {
	Doctor                string                      `json:"doctor"`
	CurrentIllnessHistory string                      `json:"currentIllnessHistory"`
	RecentSurgery         models.RecentSurgery        `json:"recentSurgery"`
	FamilyMedicalHistory  models.FamilyMedicalHistory `json:"familyMedicalHistory"`
	Payment               struct {
		TransactionID string `json:"transactionId"`
	} `json:"payment"`
}

// Create books a consultation for the calling patient. Validation reports
// every missing field at once, and the claimed transaction id is checked
// with the payment gateway rather than trusted outright.
func (s *ConsultationService) Create(ctx context.Context, userID primitive.ObjectID, in ConsultationInput) (*models.Consultation, error) {
	var errs []string
	if strings.TrimSpace(in.Doctor) == "" {
		errs = append(errs, "Doctor ID is required")
	}
	if strings.TrimSpace(in.CurrentIllnessHistory) == "" {
		errs = append(errs, "Current illness history is required")
	}
	if strings.TrimSpace(in.FamilyMedicalHistory.Diabetics) == "" {
		errs = append(errs, "Diabetic / Non-Diabetic selection is required")
	}
	if strings.TrimSpace(in.Payment.TransactionID) == "" {
		errs = append(errs, "Transaction ID is required")
	}

	var doctorID primitive.ObjectID
	if strings.TrimSpace(in.Doctor) != "" {
		var err error
		doctorID, err = primitive.ObjectIDFromHex(in.Doctor)
		if err != nil {
			errs = append(errs, "Doctor ID is invalid")
		}
	}
	if len(errs) > 0 {
		return nil, &utils.ValidationError{Errors: errs}
	}

	patient, err := s.patients.FindByUserID(ctx, userID)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("Patient profile")
		}
		return nil, err
	}
	if _, err := s.doctors.FindByID(ctx, doctorID); err != nil {
		return nil, err
	}

	exists, err := s.consultations.TransactionIDExists(ctx, in.Payment.TransactionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.Duplicate("Transaction ID")
	}

	paymentStatus := models.PaymentPending
	verified, err := s.verifier.Verify(ctx, in.Payment.TransactionID)
	if err != nil {
		// Verification is confirmed later through the gateway webhook.
		log.Println("Payment verification unavailable, payment left pending:", err)
	} else if verified {
		paymentStatus = models.PaymentCompleted
	}

	consultation := &models.Consultation{
		PatientID:             patient.ID,
		DoctorID:              doctorID,
		CurrentIllnessHistory: in.CurrentIllnessHistory,
		RecentSurgery:         in.RecentSurgery,
		FamilyMedicalHistory:  in.FamilyMedicalHistory,
		Payment: models.Payment{
			TransactionID: in.Payment.TransactionID,
			Status:        paymentStatus,
		},
		Status: models.ConsultationPending,
	}
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, err
	}
	return consultation, nil
}

// ListForPatient returns the caller's bookings newest first, each with the
// doctor profile attached.
func (s *ConsultationService) ListForPatient(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	patient, err := s.patients.FindByUserID(ctx, userID)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("Patient profile")
		}
		return nil, err
	}

	consultations, err := s.consultations.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}

	doctorByID := make(map[primitive.ObjectID]*models.Doctor)
	for i := range consultations {
		id := consultations[i].DoctorID
		doctor, ok := doctorByID[id]
		if !ok {
			doctor, err = s.doctors.FindByID(ctx, id)
			if err != nil && !utils.IsNotFound(err) {
				return nil, err
			}
			doctorByID[id] = doctor
		}
		consultations[i].DoctorProfile = doctor
	}
	return consultations, nil
}

// ListForDoctor returns consultations assigned to the calling doctor newest
// first, each with the patient profile attached.
func (s *ConsultationService) ListForDoctor(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	doctor, err := s.doctors.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	consultations, err := s.consultations.ListByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, err
	}

	patientByID := make(map[primitive.ObjectID]*models.Patient)
	for i := range consultations {
		id := consultations[i].PatientID
		patient, ok := patientByID[id]
		if !ok {
			patient, err = s.patients.FindByID(ctx, id)
			if err != nil && !utils.IsNotFound(err) {
				return nil, err
			}
			patientByID[id] = patient
		}
		consultations[i].PatientProfile = patient
	}
	return consultations, nil
}

func (s *ConsultationService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	consultation, err := s.consultations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor, err := s.doctors.FindByID(ctx, consultation.DoctorID); err == nil {
		consultation.DoctorProfile = doctor
	}
	if patient, err := s.patients.FindByID(ctx, consultation.PatientID); err == nil {
		consultation.PatientProfile = patient
	}
	return consultation, nil
}

// Acknowledge moves a pending consultation to in-progress. Only the
// assigned doctor may acknowledge, and only from pending.
func (s *ConsultationService) Acknowledge(ctx context.Context, userID, consultationID primitive.ObjectID) (*models.Consultation, error) {
	doctor, err := s.doctors.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	consultation, err := s.consultations.FindByID(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation.DoctorID != doctor.ID {
		return nil, utils.ErrForbidden
	}

	flipped, err := s.consultations.TransitionStatus(ctx, consultationID,
		[]string{models.ConsultationPending}, models.ConsultationInProgress)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, &utils.ValidationError{Errors: []string{"Consultation is no longer pending"}}
	}
	return s.consultations.FindByID(ctx, consultationID)
}

// ConfirmPayment handles the gateway webhook: the consultation holding the
// transaction id has its payment marked completed.
func (s *ConsultationService) ConfirmPayment(ctx context.Context, transactionID string) error {
	if strings.TrimSpace(transactionID) == "" {
		return &utils.ValidationError{Errors: []string{"Transaction ID is required"}}
	}
	matched, err := s.consultations.SetPaymentStatus(ctx, transactionID, models.PaymentCompleted)
	if err != nil {
		return err
	}
	if !matched {
		return utils.NotFound("Consultation")
	}
	return nil
}
