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

type mongoConsultationStore struct {
	db *mongo.Database
}

func (s *mongoConsultationStore) consultations() *mongo.Collection {
	return s.db.Collection(consultationsCollection)
}

func (s *mongoConsultationStore) Create(ctx context.Context, consultation *models.Consultation) error {
	touchTimestamps(&consultation.CreatedAt, &consultation.UpdatedAt)
	res, err := s.consultations().InsertOne(ctx, consultation)
	if err != nil {
		return translateMongoError(err, "Consultation")
	}
	consultation.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *mongoConsultationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	var consultation models.Consultation
	err := s.consultations().FindOne(ctx, bson.M{"_id": id}).Decode(&consultation)
	if err != nil {
		return nil, translateMongoError(err, "Consultation")
	}
	return &consultation, nil
}

func (s *mongoConsultationStore) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]models.Consultation, error) {
	return s.list(ctx, bson.M{"patient": patientID})
}

func (s *mongoConsultationStore) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Consultation, error) {
	return s.list(ctx, bson.M{"doctor": doctorID})
}

func (s *mongoConsultationStore) list(ctx context.Context, filter bson.M) ([]models.Consultation, error) {
	newestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.consultations().Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	var consultations []models.Consultation
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

func (s *mongoConsultationStore) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, to string) (bool, error) {
	now := time.Now().UTC()
	set := bson.M{"status": to, "updatedAt": now}
	if to == models.ConsultationInProgress {
		set["acknowledgedAt"] = now
	}
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}

	res, err := s.consultations().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (s *mongoConsultationStore) SetPaymentStatus(ctx context.Context, transactionID, status string) (bool, error) {
	res, err := s.consultations().UpdateOne(ctx,
		bson.M{"payment.transactionId": transactionID},
		bson.M{"$set": bson.M{"payment.status": status, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *mongoConsultationStore) ListStalePending(ctx context.Context, before time.Time) ([]models.Consultation, error) {
	return s.list(ctx, bson.M{
		"status":    models.ConsultationPending,
		"createdAt": bson.M{"$lt": before},
	})
}

func (s *mongoConsultationStore) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	count, err := s.consultations().CountDocuments(ctx, bson.M{"payment.transactionId": transactionID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
