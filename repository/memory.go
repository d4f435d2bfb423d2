package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"CareBridge/models"
	"CareBridge/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryStores returns a fully in-memory Stores implementation. It backs
// the test suites and lets the server run without a mongod for local
// development. All stores share one lock, which also gives the same
// all-or-nothing account creation the mongo transaction provides.
func NewMemoryStores() *Stores {
	m := &memoryData{
		users:         make(map[primitive.ObjectID]models.User),
		doctors:       make(map[primitive.ObjectID]models.Doctor),
		patients:      make(map[primitive.ObjectID]models.Patient),
		consultations: make(map[primitive.ObjectID]models.Consultation),
		prescriptions: make(map[primitive.ObjectID]models.Prescription),
	}
	return &Stores{
		Users:         &memoryUserStore{m},
		Doctors:       &memoryDoctorStore{m},
		Patients:      &memoryPatientStore{m},
		Consultations: &memoryConsultationStore{m},
		Prescriptions: &memoryPrescriptionStore{m},
	}
}

type memoryData struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]models.User
	doctors       map[primitive.ObjectID]models.Doctor
	patients      map[primitive.ObjectID]models.Patient
	consultations map[primitive.ObjectID]models.Consultation
	prescriptions map[primitive.ObjectID]models.Prescription
}

type memoryUserStore struct{ d *memoryData }

func (s *memoryUserStore) CreateWithDoctor(_ context.Context, user *models.User, doctor *models.Doctor) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.checkUnique(user.Email, doctor.PhoneNumber); err != nil {
		return err
	}
	stampUser(user)
	doctor.ID = primitive.NewObjectID()
	doctor.UserID = user.ID
	doctor.CreatedAt, doctor.UpdatedAt = user.CreatedAt, user.UpdatedAt
	user.ProfileID = doctor.ID
	s.d.users[user.ID] = *user
	s.d.doctors[doctor.ID] = *doctor
	return nil
}

func (s *memoryUserStore) CreateWithPatient(_ context.Context, user *models.User, patient *models.Patient) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if err := s.checkUnique(user.Email, patient.PhoneNumber); err != nil {
		return err
	}
	stampUser(user)
	patient.ID = primitive.NewObjectID()
	patient.UserID = user.ID
	patient.CreatedAt, patient.UpdatedAt = user.CreatedAt, user.UpdatedAt
	user.ProfileID = patient.ID
	s.d.users[user.ID] = *user
	s.d.patients[patient.ID] = *patient
	return nil
}

func (s *memoryUserStore) checkUnique(email, phone string) error {
	for _, u := range s.d.users {
		if u.Email == email {
			return utils.Duplicate("Email")
		}
	}
	for _, d := range s.d.doctors {
		if d.PhoneNumber == phone {
			return utils.Duplicate("Phone number")
		}
	}
	for _, p := range s.d.patients {
		if p.PhoneNumber == phone {
			return utils.Duplicate("Phone number")
		}
	}
	return nil
}

func stampUser(user *models.User) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, u := range s.d.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, utils.NotFound("User")
}

func (s *memoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if u, ok := s.d.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, utils.NotFound("User")
}

func (s *memoryUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, u := range s.d.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memoryDoctorStore struct{ d *memoryData }

func (s *memoryDoctorStore) FindAll(_ context.Context) ([]models.Doctor, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	doctors := make([]models.Doctor, 0, len(s.d.doctors))
	for _, doc := range s.d.doctors {
		doctors = append(doctors, doc)
	}
	sort.Slice(doctors, func(i, j int) bool {
		return doctors[i].CreatedAt.Before(doctors[j].CreatedAt)
	})
	return doctors, nil
}

func (s *memoryDoctorStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if doc, ok := s.d.doctors[id]; ok {
		copied := doc
		return &copied, nil
	}
	return nil, utils.NotFound("Doctor")
}

func (s *memoryDoctorStore) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, doc := range s.d.doctors {
		if doc.UserID == userID {
			copied := doc
			return &copied, nil
		}
	}
	return nil, utils.NotFound("Doctor")
}

func (s *memoryDoctorStore) PhoneExists(_ context.Context, phone string) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, doc := range s.d.doctors {
		if doc.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryDoctorStore) UpdateByUserID(_ context.Context, userID primitive.ObjectID, upd models.DoctorUpdate) (*models.Doctor, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for id, doc := range s.d.doctors {
		if doc.UserID != userID {
			continue
		}
		if upd.Name != nil {
			doc.Name = *upd.Name
		}
		if upd.Specialty != nil {
			doc.Specialty = *upd.Specialty
		}
		if upd.PhoneNumber != nil {
			doc.PhoneNumber = *upd.PhoneNumber
		}
		if upd.YearsOfExperience != nil {
			doc.YearsOfExperience = *upd.YearsOfExperience
		}
		if upd.ProfilePicture != nil {
			doc.ProfilePicture = *upd.ProfilePicture
		}
		doc.UpdatedAt = time.Now().UTC()
		s.d.doctors[id] = doc
		copied := doc
		return &copied, nil
	}
	return nil, utils.NotFound("Doctor")
}

type memoryPatientStore struct{ d *memoryData }

func (s *memoryPatientStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if p, ok := s.d.patients[id]; ok {
		copied := p
		return &copied, nil
	}
	return nil, utils.NotFound("Patient")
}

func (s *memoryPatientStore) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, p := range s.d.patients {
		if p.UserID == userID {
			copied := p
			return &copied, nil
		}
	}
	return nil, utils.NotFound("Patient")
}

func (s *memoryPatientStore) PhoneExists(_ context.Context, phone string) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, p := range s.d.patients {
		if p.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryPatientStore) UpdateByUserID(_ context.Context, userID primitive.ObjectID, upd models.PatientUpdate) (*models.Patient, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for id, p := range s.d.patients {
		if p.UserID != userID {
			continue
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Age != nil {
			p.Age = *upd.Age
		}
		if upd.PhoneNumber != nil {
			p.PhoneNumber = *upd.PhoneNumber
		}
		if upd.HistoryOfSurgery != nil {
			p.HistoryOfSurgery = upd.HistoryOfSurgery
		}
		if upd.HistoryOfIllness != nil {
			p.HistoryOfIllness = upd.HistoryOfIllness
		}
		if upd.ProfilePicture != nil {
			p.ProfilePicture = *upd.ProfilePicture
		}
		p.UpdatedAt = time.Now().UTC()
		s.d.patients[id] = p
		copied := p
		return &copied, nil
	}
	return nil, utils.NotFound("Patient")
}

type memoryConsultationStore struct{ d *memoryData }

func (s *memoryConsultationStore) Create(_ context.Context, consultation *models.Consultation) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, c := range s.d.consultations {
		if c.Payment.TransactionID == consultation.Payment.TransactionID {
			return utils.Duplicate("Transaction ID")
		}
	}
	consultation.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	consultation.CreatedAt, consultation.UpdatedAt = now, now
	s.d.consultations[consultation.ID] = *consultation
	return nil
}

func (s *memoryConsultationStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if c, ok := s.d.consultations[id]; ok {
		copied := c
		return &copied, nil
	}
	return nil, utils.NotFound("Consultation")
}

func (s *memoryConsultationStore) ListByPatient(_ context.Context, patientID primitive.ObjectID) ([]models.Consultation, error) {
	return s.list(func(c models.Consultation) bool { return c.PatientID == patientID })
}

func (s *memoryConsultationStore) ListByDoctor(_ context.Context, doctorID primitive.ObjectID) ([]models.Consultation, error) {
	return s.list(func(c models.Consultation) bool { return c.DoctorID == doctorID })
}

func (s *memoryConsultationStore) list(match func(models.Consultation) bool) ([]models.Consultation, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var consultations []models.Consultation
	for _, c := range s.d.consultations {
		if match(c) {
			consultations = append(consultations, c)
		}
	}
	sort.Slice(consultations, func(i, j int) bool {
		return consultations[i].CreatedAt.After(consultations[j].CreatedAt)
	})
	return consultations, nil
}

func (s *memoryConsultationStore) TransitionStatus(_ context.Context, id primitive.ObjectID, from []string, to string) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.consultations[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, f := range from {
		if c.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	now := time.Now().UTC()
	c.Status = to
	c.Version++
	c.UpdatedAt = now
	if to == models.ConsultationInProgress {
		c.AcknowledgedAt = &now
	}
	s.d.consultations[id] = c
	return true, nil
}

func (s *memoryConsultationStore) SetPaymentStatus(_ context.Context, transactionID, status string) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for id, c := range s.d.consultations {
		if c.Payment.TransactionID == transactionID {
			c.Payment.Status = status
			c.UpdatedAt = time.Now().UTC()
			s.d.consultations[id] = c
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryConsultationStore) ListStalePending(_ context.Context, before time.Time) ([]models.Consultation, error) {
	return s.list(func(c models.Consultation) bool {
		return c.Status == models.ConsultationPending && c.CreatedAt.Before(before)
	})
}

func (s *memoryConsultationStore) TransactionIDExists(_ context.Context, transactionID string) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, c := range s.d.consultations {
		if c.Payment.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

type memoryPrescriptionStore struct{ d *memoryData }

func (s *memoryPrescriptionStore) Create(_ context.Context, prescription *models.Prescription) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	prescription.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	prescription.CreatedAt, prescription.UpdatedAt = now, now
	s.d.prescriptions[prescription.ID] = *prescription
	return nil
}

func (s *memoryPrescriptionStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Prescription, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if p, ok := s.d.prescriptions[id]; ok {
		copied := p
		return &copied, nil
	}
	return nil, utils.NotFound("Prescription")
}

func (s *memoryPrescriptionStore) ListByConsultation(_ context.Context, consultationID primitive.ObjectID) ([]models.Prescription, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var prescriptions []models.Prescription
	for _, p := range s.d.prescriptions {
		if p.ConsultationID == consultationID {
			prescriptions = append(prescriptions, p)
		}
	}
	sort.Slice(prescriptions, func(i, j int) bool {
		return prescriptions[i].CreatedAt.Before(prescriptions[j].CreatedAt)
	})
	return prescriptions, nil
}

func (s *memoryPrescriptionStore) Update(_ context.Context, id primitive.ObjectID, upd models.PrescriptionUpdate) (*models.Prescription, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	p, ok := s.d.prescriptions[id]
	if !ok {
		return nil, utils.NotFound("Prescription")
	}
	if upd.CareToBeTaken != nil {
		p.CareToBeTaken = *upd.CareToBeTaken
	}
	if upd.Medicines != nil {
		p.Medicines = upd.Medicines
	}
	p.UpdatedAt = time.Now().UTC()
	s.d.prescriptions[id] = p
	copied := p
	return &copied, nil
}

func (s *memoryPrescriptionStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.prescriptions[id]; !ok {
		return utils.NotFound("Prescription")
	}
	delete(s.d.prescriptions, id)
	return nil
}

func (s *memoryPrescriptionStore) MarkPublished(_ context.Context, id primitive.ObjectID, url string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	p, ok := s.d.prescriptions[id]
	if !ok {
		return utils.NotFound("Prescription")
	}
	p.PDFURL = url
	p.Status = models.PrescriptionSent
	p.UploadFailedAt = nil
	p.UpdatedAt = time.Now().UTC()
	s.d.prescriptions[id] = p
	return nil
}

func (s *memoryPrescriptionStore) MarkUploadFailed(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	p, ok := s.d.prescriptions[id]
	if !ok {
		return utils.NotFound("Prescription")
	}
	p.UploadFailedAt = &at
	p.UpdatedAt = time.Now().UTC()
	s.d.prescriptions[id] = p
	return nil
}

func (s *memoryPrescriptionStore) ListFailedUploads(_ context.Context) ([]models.Prescription, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var prescriptions []models.Prescription
	for _, p := range s.d.prescriptions {
		if p.UploadFailedAt != nil {
			prescriptions = append(prescriptions, p)
		}
	}
	return prescriptions, nil
}
