package repository

import (
	"context"
	"strings"
	"time"

	"CareBridge/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	doctorsCollection       = "doctors"
	patientsCollection      = "patients"
	consultationsCollection = "consultations"
	prescriptionsCollection = "prescriptions"
)

// NewMongoStores wires every store against one database handle.
func NewMongoStores(client *mongo.Client, db *mongo.Database) *Stores {
	return &Stores{
		Users:         &mongoUserStore{client: client, db: db},
		Doctors:       &mongoDoctorStore{db: db},
		Patients:      &mongoPatientStore{db: db},
		Consultations: &mongoConsultationStore{db: db},
		Prescriptions: &mongoPrescriptionStore{db: db},
	}
}

// EnsureIndexes creates the uniqueness indexes the data model relies on:
// account emails, profile phone numbers and payment transaction ids.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	type spec struct {
		collection string
		keys       bson.D
	}
	specs := []spec{
		{usersCollection, bson.D{{Key: "email", Value: 1}}},
		{doctorsCollection, bson.D{{Key: "phoneNumber", Value: 1}}},
		{patientsCollection, bson.D{{Key: "phoneNumber", Value: 1}}},
		{consultationsCollection, bson.D{{Key: "payment.transactionId", Value: 1}}},
	}
	for _, s := range specs {
		_, err := db.Collection(s.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    s.keys,
			Options: unique,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// translateMongoError converts driver errors into the service taxonomy.
func translateMongoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return utils.NotFound(resource)
	case mongo.IsDuplicateKeyError(err):
		msg := err.Error()
		switch {
		case strings.Contains(msg, "email"):
			return utils.Duplicate("Email")
		case strings.Contains(msg, "phoneNumber"):
			return utils.Duplicate("Phone number")
		case strings.Contains(msg, "transactionId"):
			return utils.Duplicate("Transaction ID")
		default:
			return utils.Duplicate("Record")
		}
	default:
		return err
	}
}

// transactionUnsupported reports whether the deployment cannot run
// multi-document transactions (standalone mongod without a replica set).
func transactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers") ||
		strings.Contains(msg, "transactions are not supported")
}

func touchTimestamps(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
