package services

import (
	"context"
	"log"
	"strings"
	"time"

	"CareBridge/config"
	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrescriptionService struct {
	prescriptions repository.PrescriptionStore
	consultations repository.ConsultationStore
	doctors       repository.DoctorStore
	patients      repository.PatientStore
	renderer      DocumentRenderer
	storage       Storage
	uploadPolicy  string
}

func NewPrescriptionService(stores *repository.Stores, renderer DocumentRenderer, storage Storage, uploadPolicy string) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: stores.Prescriptions,
		consultations: stores.Consultations,
		doctors:       stores.Doctors,
		patients:      stores.Patients,
		renderer:      renderer,
		storage:       storage,
		uploadPolicy:  uploadPolicy,
	}
}

type PrescriptionInput struct {
	Consultation  string            `json:"consultation"`
	CareToBeTaken string            `json:"careToBeTaken"`
	Medicines     []models.Medicine `json:"medicines"`
}

// Create inserts a draft prescription and completes its consultation. The
// status flip is guarded on the current status, so with concurrent creates
// every insert succeeds but the transition is observed exactly once.
// Multiple prescriptions per consultation are allowed.
func (s *PrescriptionService) Create(ctx context.Context, in PrescriptionInput) (*models.Prescription, error) {
	var errs []string
	if strings.TrimSpace(in.Consultation) == "" {
		errs = append(errs, "Consultation ID is required")
	}
	if strings.TrimSpace(in.CareToBeTaken) == "" {
		errs = append(errs, "Care instructions are required")
	}

	var consultationID primitive.ObjectID
	if strings.TrimSpace(in.Consultation) != "" {
		var err error
		consultationID, err = primitive.ObjectIDFromHex(in.Consultation)
		if err != nil {
			errs = append(errs, "Consultation ID is invalid")
		}
	}
	if len(errs) > 0 {
		return nil, &utils.ValidationError{Errors: errs}
	}

	if _, err := s.consultations.FindByID(ctx, consultationID); err != nil {
		return nil, err
	}

	prescription := &models.Prescription{
		ConsultationID: consultationID,
		CareToBeTaken:  in.CareToBeTaken,
		Medicines:      in.Medicines,
		Status:         models.PrescriptionDraft,
	}
	if prescription.Medicines == nil {
		prescription.Medicines = []models.Medicine{}
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}

	_, err := s.consultations.TransitionStatus(ctx, consultationID,
		[]string{models.ConsultationPending, models.ConsultationInProgress},
		models.ConsultationCompleted)
	if err != nil {
		return nil, err
	}
	return prescription, nil
}

// RenderResult carries the rendered document and what happened to it.
// Uploaded is false when the degrade policy kept a storage failure from
// failing the request; the bytes are still usable.
type RenderResult struct {
	Prescription *models.Prescription
	PDF          []byte
	URL          string
	Uploaded     bool
}

// RenderAndPublish renders the prescription document and publishes it to
// object storage. The storage failure policy is configuration: degrade
// returns the bytes anyway and schedules a retry, strict fails the call.
func (s *PrescriptionService) RenderAndPublish(ctx context.Context, id primitive.ObjectID) (*RenderResult, error) {
	prescription, err := s.prescriptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := s.documentFor(ctx, prescription)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderPrescription(*doc)
	if err != nil {
		return nil, utils.Upstream("document rendering", err)
	}

	url, uploadErr := s.storage.UploadPDF(ctx, pdf, "prescription_"+id.Hex())
	if uploadErr != nil {
		if s.uploadPolicy == config.UploadPolicyStrict {
			return nil, utils.Upstream("object storage", uploadErr)
		}
		log.Println("PDF upload failed, serving rendered bytes anyway:", uploadErr)
		if err := s.prescriptions.MarkUploadFailed(ctx, id, time.Now().UTC()); err != nil {
			log.Println("Error recording upload failure:", err)
		}
		return &RenderResult{Prescription: prescription, PDF: pdf, URL: prescription.PDFURL, Uploaded: false}, nil
	}

	if err := s.prescriptions.MarkPublished(ctx, id, url); err != nil {
		return nil, err
	}
	prescription.PDFURL = url
	prescription.Status = models.PrescriptionSent
	return &RenderResult{Prescription: prescription, PDF: pdf, URL: url, Uploaded: true}, nil
}

func (s *PrescriptionService) documentFor(ctx context.Context, prescription *models.Prescription) (*PrescriptionDocument, error) {
	consultation, err := s.consultations.FindByID(ctx, prescription.ConsultationID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, consultation.DoctorID)
	if err != nil {
		return nil, err
	}
	patient, err := s.patients.FindByID(ctx, consultation.PatientID)
	if err != nil {
		return nil, err
	}
	return &PrescriptionDocument{
		Prescription: *prescription,
		Consultation: *consultation,
		Doctor:       *doctor,
		Patient:      *patient,
	}, nil
}

func (s *PrescriptionService) ListForConsultation(ctx context.Context, consultationID primitive.ObjectID) ([]models.Prescription, error) {
	prescriptions, err := s.prescriptions.ListByConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if prescriptions == nil {
		prescriptions = []models.Prescription{}
	}
	return prescriptions, nil
}

func (s *PrescriptionService) Update(ctx context.Context, id primitive.ObjectID, upd models.PrescriptionUpdate) (*models.Prescription, error) {
	return s.prescriptions.Update(ctx, id, upd)
}

func (s *PrescriptionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.prescriptions.Delete(ctx, id)
}

// RetryFailedUploads re-renders and re-publishes every prescription whose
// last publish attempt failed. Called from the hourly sweep.
func (s *PrescriptionService) RetryFailedUploads(ctx context.Context) {
	failed, err := s.prescriptions.ListFailedUploads(ctx)
	if err != nil {
		log.Println("Error listing failed uploads:", err)
		return
	}
	for _, prescription := range failed {
		doc, err := s.documentFor(ctx, &prescription)
		if err != nil {
			log.Println("Error loading prescription context for retry:", err)
			continue
		}
		pdf, err := s.renderer.RenderPrescription(*doc)
		if err != nil {
			log.Println("Error re-rendering prescription:", err)
			continue
		}
		url, err := s.storage.UploadPDF(ctx, pdf, "prescription_"+prescription.ID.Hex())
		if err != nil {
			log.Println("Retry upload failed:", err)
			continue
		}
		if err := s.prescriptions.MarkPublished(ctx, prescription.ID, url); err != nil {
			log.Println("Error recording retried upload:", err)
			continue
		}
		log.Println("Recovered failed upload for prescription", prescription.ID.Hex())
	}
}
