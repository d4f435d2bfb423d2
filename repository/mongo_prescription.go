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

type mongoPrescriptionStore struct {
	db *mongo.Database
}

func (s *mongoPrescriptionStore) prescriptions() *mongo.Collection {
	return s.db.Collection(prescriptionsCollection)
}

func (s *mongoPrescriptionStore) Create(ctx context.Context, prescription *models.Prescription) error {
	touchTimestamps(&prescription.CreatedAt, &prescription.UpdatedAt)
	res, err := s.prescriptions().InsertOne(ctx, prescription)
	if err != nil {
		return translateMongoError(err, "Prescription")
	}
	prescription.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoPrescriptionStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prescription, error) {
	var prescription models.Prescription
	err := s.prescriptions().FindOne(ctx, bson.M{"_id": id}).Decode(&prescription)
	if err != nil {
		return nil, translateMongoError(err, "Prescription")
	}
	return &prescription, nil
}

func (s *mongoPrescriptionStore) ListByConsultation(ctx context.Context, consultationID primitive.ObjectID) ([]models.Prescription, error) {
	cursor, err := s.prescriptions().Find(ctx, bson.M{"consultation": consultationID})
	if err != nil {
		return nil, err
	}
	var prescriptions []models.Prescription
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (s *mongoPrescriptionStore) Update(ctx context.Context, id primitive.ObjectID, upd models.PrescriptionUpdate) (*models.Prescription, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.CareToBeTaken != nil {
		set["careToBeTaken"] = *upd.CareToBeTaken
	}
	if upd.Medicines != nil {
		set["medicines"] = upd.Medicines
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var prescription models.Prescription
	err := s.prescriptions().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).
		Decode(&prescription)
	if err != nil {
		return nil, translateMongoError(err, "Prescription")
	}
	return &prescription, nil
}

func (s *mongoPrescriptionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.prescriptions().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return translateMongoError(mongo.ErrNoDocuments, "Prescription")
	}
	return nil
}

func (s *mongoPrescriptionStore) MarkPublished(ctx context.Context, id primitive.ObjectID, url string) error {
	_, err := s.prescriptions().UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"pdfUrl": url, "status": models.PrescriptionSent, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"uploadFailedAt": ""},
	})
	return err
}

func (s *mongoPrescriptionStore) MarkUploadFailed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.prescriptions().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"uploadFailedAt": at, "updatedAt": time.Now().UTC()},
	})
	return err
}

func (s *mongoPrescriptionStore) ListFailedUploads(ctx context.Context) ([]models.Prescription, error) {
	cursor, err := s.prescriptions().Find(ctx, bson.M{"uploadFailedAt": bson.M{"$exists": true}})
	if err != nil {
		return nil, err
	}
	var prescriptions []models.Prescription
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}
