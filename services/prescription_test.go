package services

import (
	"context"
	"sync"
	"testing"

	"CareBridge/config"
	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type prescriptionFixture struct {
	stores       *repository.Stores
	storage      *fakeStorage
	svc          *PrescriptionService
	consultation *models.Consultation
}

func newPrescriptionFixture(t *testing.T, policy string) *prescriptionFixture {
	t.Helper()
	stores := repository.NewMemoryStores()
	ctx := context.Background()

	doctorUser := &models.User{Email: "doc@example.com", Password: "x", Role: models.RoleDoctor}
	doctor := &models.Doctor{Name: "Dr. Jones", Specialty: "Cardiology", PhoneNumber: "9876543210"}
	require.NoError(t, stores.Users.CreateWithDoctor(ctx, doctorUser, doctor))

	patientUser := &models.User{Email: "asha@example.com", Password: "x", Role: models.RolePatient}
	patient := &models.Patient{Name: "Asha", Age: 34, PhoneNumber: "9123456780"}
	require.NoError(t, stores.Users.CreateWithPatient(ctx, patientUser, patient))

	consultation := &models.Consultation{
		PatientID:             patient.ID,
		DoctorID:              doctor.ID,
		CurrentIllnessHistory: "Persistent chest pain",
		Payment:               models.Payment{TransactionID: "TXN123", Status: models.PaymentCompleted},
		Status:                models.ConsultationPending,
	}
	require.NoError(t, stores.Consultations.Create(ctx, consultation))

	storage := &fakeStorage{}
	return &prescriptionFixture{
		stores:       stores,
		storage:      storage,
		svc:          NewPrescriptionService(stores, fakeRenderer{}, storage, policy),
		consultation: consultation,
	}
}

func (f *prescriptionFixture) input() PrescriptionInput {
	return PrescriptionInput{
		Consultation:  f.consultation.ID.Hex(),
		CareToBeTaken: "Bed rest for three days, plenty of fluids",
		Medicines: []models.Medicine{
			{Name: "Paracetamol", Dosage: "500mg", Frequency: "twice a day", Duration: "5 days"},
		},
	}
}

func TestCreatePrescriptionCompletesConsultation(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)

	prescription, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionDraft, prescription.Status)

	consultation, err := f.stores.Consultations.FindByID(context.Background(), f.consultation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationCompleted, consultation.Status)
}

func TestCreatePrescriptionValidation(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)

	_, err := f.svc.Create(context.Background(), PrescriptionInput{})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{
		"Consultation ID is required",
		"Care instructions are required",
	}, ve.Errors)

	_, err = f.svc.Create(context.Background(), PrescriptionInput{
		Consultation:  "nonsense",
		CareToBeTaken: "rest",
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "Consultation ID is invalid")
}

func TestCreatePrescriptionUnknownConsultation(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)

	in := f.input()
	in.Consultation = primitive.NewObjectID().Hex()
	_, err := f.svc.Create(context.Background(), in)
	assert.True(t, utils.IsNotFound(err))
}

func TestConcurrentCreatesCompleteOnce(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), f.input())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	prescriptions, err := f.svc.ListForConsultation(context.Background(), f.consultation.ID)
	require.NoError(t, err)
	assert.Len(t, prescriptions, writers)

	// every write raced over the same transition, but it landed exactly once
	consultation, err := f.stores.Consultations.FindByID(context.Background(), f.consultation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationCompleted, consultation.Status)
	assert.Equal(t, int64(1), consultation.Version)
}

func TestRenderAndPublish(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)
	prescription, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	result, err := f.svc.RenderAndPublish(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.True(t, result.Uploaded)
	assert.NotEmpty(t, result.PDF)
	assert.Contains(t, result.URL, prescription.ID.Hex())

	stored, err := f.stores.Prescriptions.FindByID(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionSent, stored.Status)
	assert.Equal(t, result.URL, stored.PDFURL)
}

func TestRenderAndPublishDegradeKeepsBytes(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)
	f.storage.failPDF = true
	prescription, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	result, err := f.svc.RenderAndPublish(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.False(t, result.Uploaded)
	assert.NotEmpty(t, result.PDF)
	assert.Empty(t, result.URL)

	stored, err := f.stores.Prescriptions.FindByID(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionDraft, stored.Status)
	assert.NotNil(t, stored.UploadFailedAt)
}

func TestRenderAndPublishStrictFails(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyStrict)
	f.storage.failPDF = true
	prescription, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	_, err = f.svc.RenderAndPublish(context.Background(), prescription.ID)
	var ue *utils.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "object storage", ue.Op)
}

func TestRetryFailedUploads(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)
	f.storage.failPDF = true
	prescription, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	_, err = f.svc.RenderAndPublish(context.Background(), prescription.ID)
	require.NoError(t, err)

	// storage recovers, the sweep republishes
	f.storage.failPDF = false
	f.svc.RetryFailedUploads(context.Background())

	stored, err := f.stores.Prescriptions.FindByID(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionSent, stored.Status)
	assert.NotEmpty(t, stored.PDFURL)
	assert.Nil(t, stored.UploadFailedAt)

	// nothing left to retry
	f.svc.RetryFailedUploads(context.Background())
	failed, err := f.stores.Prescriptions.ListFailedUploads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestUpdateAndDeletePrescription(t *testing.T) {
	f := newPrescriptionFixture(t, config.UploadPolicyDegrade)
	prescription, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	care := "Updated care instructions"
	updated, err := f.svc.Update(context.Background(), prescription.ID, models.PrescriptionUpdate{CareToBeTaken: &care})
	require.NoError(t, err)
	assert.Equal(t, care, updated.CareToBeTaken)

	require.NoError(t, f.svc.Delete(context.Background(), prescription.ID))
	err = f.svc.Delete(context.Background(), prescription.ID)
	assert.True(t, utils.IsNotFound(err))
}
