package jobs

import (
	"context"
	"io"
	"testing"
	"time"

	"CareBridge/config"
	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStorage struct {
	fail bool
}

func (s *flakyStorage) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	return "", nil
}

func (s *flakyStorage) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	if s.fail {
		return "", assert.AnError
	}
	return "https://cdn.example.com/prescriptions/" + publicID + ".pdf", nil
}

type stubRenderer struct{}

func (stubRenderer) RenderPrescription(doc services.PrescriptionDocument) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func seedConsultation(t *testing.T, stores *repository.Stores) *models.Consultation {
	t.Helper()
	ctx := context.Background()

	doctorUser := &models.User{Email: "doc@example.com", Password: "x", Role: models.RoleDoctor}
	doctor := &models.Doctor{Name: "Dr. Jones", PhoneNumber: "9876543210"}
	require.NoError(t, stores.Users.CreateWithDoctor(ctx, doctorUser, doctor))

	patientUser := &models.User{Email: "asha@example.com", Password: "x", Role: models.RolePatient}
	patient := &models.Patient{Name: "Asha", PhoneNumber: "9123456780"}
	require.NoError(t, stores.Users.CreateWithPatient(ctx, patientUser, patient))

	consultation := &models.Consultation{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Payment:   models.Payment{TransactionID: "TXN123", Status: models.PaymentCompleted},
		Status:    models.ConsultationPending,
	}
	require.NoError(t, stores.Consultations.Create(ctx, consultation))
	return consultation
}

func TestRetrySweepRecoversFailedUploads(t *testing.T) {
	stores := repository.NewMemoryStores()
	consultation := seedConsultation(t, stores)
	storage := &flakyStorage{fail: true}
	svc := services.NewPrescriptionService(stores, stubRenderer{}, storage, config.UploadPolicyDegrade)

	prescription, err := svc.Create(context.Background(), services.PrescriptionInput{
		Consultation:  consultation.ID.Hex(),
		CareToBeTaken: "Bed rest",
	})
	require.NoError(t, err)
	_, err = svc.RenderAndPublish(context.Background(), prescription.ID)
	require.NoError(t, err)

	scheduler := NewScheduler(svc, stores.Consultations)
	storage.fail = false
	scheduler.retryFailedUploads()

	stored, err := stores.Prescriptions.FindByID(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionSent, stored.Status)
	assert.NotEmpty(t, stored.PDFURL)
}

func TestStalePendingReport(t *testing.T) {
	stores := repository.NewMemoryStores()
	consultation := seedConsultation(t, stores)

	// nothing stale yet
	stale, err := stores.Consultations.ListStalePending(context.Background(), time.Now().Add(-stalePendingAge))
	require.NoError(t, err)
	assert.Empty(t, stale)

	// a cutoff in the future picks up the fresh pending booking
	stale, err = stores.Consultations.ListStalePending(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, consultation.ID, stale[0].ID)
}
