package services

import (
	"context"
	"io"

	"CareBridge/models"
	"CareBridge/repository"
	"CareBridge/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PatientService struct {
	patients repository.PatientStore
	storage  Storage
}

func NewPatientService(stores *repository.Stores, storage Storage) *PatientService {
	return &PatientService{patients: stores.Patients, storage: storage}
}

func (s *PatientService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	return s.patients.FindByUserID(ctx, userID)
}

type UpdatePatientInput struct {
	Name             *string
	Age              *int
	PhoneNumber      *string
	HistoryOfSurgery *string
	HistoryOfIllness *string
	ProfilePicture   io.Reader
}

func (s *PatientService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdatePatientInput) (*models.Patient, error) {
	upd := models.PatientUpdate{
		Name:        in.Name,
		Age:         in.Age,
		PhoneNumber: in.PhoneNumber,
	}
	if in.HistoryOfSurgery != nil {
		upd.HistoryOfSurgery = splitHistory(*in.HistoryOfSurgery)
	}
	if in.HistoryOfIllness != nil {
		upd.HistoryOfIllness = splitHistory(*in.HistoryOfIllness)
	}
	if in.ProfilePicture != nil {
		url, err := s.storage.UploadImage(ctx, in.ProfilePicture, "patient-profiles")
		if err != nil {
			return nil, utils.Upstream("profile image upload", err)
		}
		upd.ProfilePicture = &url
	}
	return s.patients.UpdateByUserID(ctx, userID, upd)
}
