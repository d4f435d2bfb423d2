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

type mongoDoctorStore struct {
	db *mongo.Database
}

func (s *mongoDoctorStore) doctors() *mongo.Collection {
	return s.db.Collection(doctorsCollection)
}

func (s *mongoDoctorStore) FindAll(ctx context.Context) ([]models.Doctor, error) {
	cursor, err := s.doctors().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *mongoDoctorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.doctors().FindOne(ctx, bson.M{"_id": id}).Decode(&doctor)
	if err != nil {
		return nil, translateMongoError(err, "Doctor")
	}
	return &doctor, nil
}

func (s *mongoDoctorStore) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.doctors().FindOne(ctx, bson.M{"user": userID}).Decode(&doctor)
	if err != nil {
		return nil, translateMongoError(err, "Doctor")
	}
	return &doctor, nil
}

func (s *mongoDoctorStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	count, err := s.doctors().CountDocuments(ctx, bson.M{"phoneNumber": phone})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *mongoDoctorStore) UpdateByUserID(ctx context.Context, userID primitive.ObjectID, upd models.DoctorUpdate) (*models.Doctor, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Specialty != nil {
		set["specialty"] = *upd.Specialty
	}
	if upd.PhoneNumber != nil {
		set["phoneNumber"] = *upd.PhoneNumber
	}
	if upd.YearsOfExperience != nil {
		set["yearsOfExperience"] = *upd.YearsOfExperience
	}
	if upd.ProfilePicture != nil {
		set["profilePicture"] = *upd.ProfilePicture
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doctor models.Doctor
	err := s.doctors().
		FindOneAndUpdate(ctx, bson.M{"user": userID}, bson.M{"$set": set}, after).
		Decode(&doctor)
	if err != nil {
		return nil, translateMongoError(err, "Doctor")
	}
	return &doctor, nil
}
