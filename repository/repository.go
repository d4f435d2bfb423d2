package repository

import (
	"context"
	"time"

	"CareBridge/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore owns account records. Account + profile creation is a single
// atomic unit: either both documents land or neither does.
type UserStore interface {
	CreateWithDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error
	CreateWithPatient(ctx context.Context, user *models.User, patient *models.Patient) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type DoctorStore interface {
	FindAll(ctx context.Context) ([]models.Doctor, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd models.DoctorUpdate) (*models.Doctor, error)
}

type PatientStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd models.PatientUpdate) (*models.Patient, error)
}

type ConsultationStore interface {
	Create(ctx context.Context, consultation *models.Consultation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error)
	// ListByPatient and ListByDoctor return newest first.
	ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Consultation, error)
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Consultation, error)
	// TransitionStatus flips status only when the current status is one of
	// from, bumping the version counter. Reports whether the write matched,
	// so a transition is observed exactly once under concurrent callers.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, to string) (bool, error)
	// SetPaymentStatus updates the payment block of the consultation carrying
	// the given transaction id. Reports whether a consultation matched.
	SetPaymentStatus(ctx context.Context, transactionID, status string) (bool, error)
	TransactionIDExists(ctx context.Context, transactionID string) (bool, error)
	// ListStalePending returns pending consultations created before the cutoff.
	ListStalePending(ctx context.Context, before time.Time) ([]models.Consultation, error)
}

type PrescriptionStore interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prescription, error)
	ListByConsultation(ctx context.Context, consultationID primitive.ObjectID) ([]models.Prescription, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.PrescriptionUpdate) (*models.Prescription, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// MarkPublished records the stored document URL, moves the prescription
	// to "sent" and clears any pending upload failure.
	MarkPublished(ctx context.Context, id primitive.ObjectID, url string) error
	MarkUploadFailed(ctx context.Context, id primitive.ObjectID, at time.Time) error
	ListFailedUploads(ctx context.Context) ([]models.Prescription, error)
}

// Stores bundles every store for dependency wiring.
type Stores struct {
	Users         UserStore
	Doctors       DoctorStore
	Patients      PatientStore
	Consultations ConsultationStore
	Prescriptions PrescriptionStore
}
