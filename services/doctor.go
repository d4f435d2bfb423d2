package services

import (
	"context"
	"io"

	"CareBridge/cache"
	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DoctorService struct {
	doctors repository.DoctorStore
	storage Storage
	cache   *cache.Cache
}

func NewDoctorService(stores *repository.Stores, storage Storage, c *cache.Cache) *DoctorService {
	return &DoctorService{doctors: stores.Doctors, storage: storage, cache: c}
}

// List returns the doctor directory, served from cache when fresh.
func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	if doctors, ok := s.cache.GetDoctorList(ctx); ok {
		return doctors, nil
	}
	doctors, err := s.doctors.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDoctorList(ctx, doctors)
	return doctors, nil
}

func (s *DoctorService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	return s.doctors.FindByUserID(ctx, userID)
}

type UpdateDoctorInput struct {
	Name              *string
	Specialty         *string
	PhoneNumber       *string
	YearsOfExperience *int
	ProfilePicture    io.Reader
}

func (s *DoctorService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateDoctorInput) (*models.Doctor, error) {
	upd := models.DoctorUpdate{
		Name:              in.Name,
		Specialty:         in.Specialty,
		PhoneNumber:       in.PhoneNumber,
		YearsOfExperience: in.YearsOfExperience,
	}
	if in.ProfilePicture != nil {
		url, err := s.storage.UploadImage(ctx, in.ProfilePicture, "doctor-profiles")
		if err != nil {
			return nil, utils.Upstream("profile image upload", err)
		}
		upd.ProfilePicture = &url
	}

	doctor, err := s.doctors.UpdateByUserID(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateDoctorList(ctx)
	return doctor, nil
}
