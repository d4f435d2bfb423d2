package repository

import (
	"context"
	"time"

	"CareBridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPatientStore struct {
	db *mongo.Database
}

func (s *mongoPatientStore) patients() *mongo.Collection {
	return s.db.Collection(patientsCollection)
}

func (s *mongoPatientStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var patient models.Patient
	err := s.patients().FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if err != nil {
		return nil, translateMongoError(err, "Patient")
	}
	return &patient, nil
}

func (s *mongoPatientStore) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	var patient models.Patient
	err := s.patients().FindOne(ctx, bson.M{"user": userID}).Decode(&patient)
	if err != nil {
		return nil, translateMongoError(err, "Patient")
	}
	return &patient, nil
}

func (s *mongoPatientStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	count, err := s.patients().CountDocuments(ctx, bson.M{"phoneNumber": phone})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *mongoPatientStore) UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd models.PatientUpdate) (*models.Patient, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Age != nil {
		set["age"] = *upd.Age
	}
	if upd.PhoneNumber != nil {
		set["phoneNumber"] = *upd.PhoneNumber
	}
	if upd.HistoryOfSurgery != nil {
		set["historyOfSurgery"] = upd.HistoryOfSurgery
	}
	if upd.HistoryOfIllness != nil {
		set["historyOfIllness"] = upd.HistoryOfIllness
	}
	if upd.ProfilePicture != nil {
		set["profilePicture"] = *upd.ProfilePicture
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var patient models.Patient
	err := s.patients().
		FindOneAndUpdate(ctx, bson.M{"user": userID}, bson.M{"$set": set}, after).
		Decode(&patient)
	if err != nil {
		return nil, translateMongoError(err, "Patient")
	}
	return &patient, nil
}
