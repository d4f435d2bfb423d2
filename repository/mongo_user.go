package repository

import (
	"context"
	"log"

	"CareBridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUserStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func (s *mongoUserStore) users() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

func (s *mongoUserStore) CreateWithDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error {
	touchTimestamps(&doctor.CreatedAt, &doctor.UpdatedAt)
	return s.createAccount(ctx, user, func(ctx context.Context) (primitive.ObjectID, error) {
		doctor.UserID = user.ID
		res, err := s.db.Collection(doctorsCollection).InsertOne(ctx, doctor)
		if err != nil {
			return primitive.NilObjectID, err
		}
		doctor.ID = res.InsertedID.(primitive.ObjectID)
		return doctor.ID, nil
	})
}

func (s *mongoUserStore) CreateWithPatient(ctx context.Context, user *models.User, patient *models.Patient) error {
	touchTimestamps(&patient.CreatedAt, &patient.UpdatedAt)
	return s.createAccount(ctx, user, func(ctx context.Context) (primitive.ObjectID, error) {
		patient.UserID = user.ID
		res, err := s.db.Collection(patientsCollection).InsertOne(ctx, patient)
		if err != nil {
			return primitive.NilObjectID, err
		}
		patient.ID = res.InsertedID.(primitive.ObjectID)
		return patient.ID, nil
	})
}

// createAccount writes the account and its profile as one unit. Both writes
// run inside a session transaction; on deployments without replica sets the
// transaction is not available, so the writes degrade to sequential inserts.
func (s *mongoUserStore) createAccount(ctx context.Context, user *models.User, insertProfile func(ctx context.Context) (primitive.ObjectID, error)) error {
	touchTimestamps(&user.CreatedAt, &user.UpdatedAt)

	create := func(ctx context.Context) error {
		res, err := s.users().InsertOne(ctx, user)
		if err != nil {
			return err
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		profileID, err := insertProfile(ctx)
		if err != nil {
			return err
		}

		_, err = s.users().UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"profile": profileID}})
		if err != nil {
			return err
		}
		user.ProfileID = profileID
		return nil
	}

	session, err := s.client.StartSession()
	if err == nil {
		defer session.EndSession(ctx)
		_, txnErr := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, create(sc)
		})
		if txnErr == nil {
			return nil
		}
		if !transactionUnsupported(txnErr) {
			return translateMongoError(txnErr, "User")
		}
		log.Println("mongo transactions unavailable, using sequential account writes:", txnErr)
		// The aborted transaction left no residue; reset and retry plainly.
		user.ID = primitive.NilObjectID
	}
	return translateMongoError(create(ctx), "User")
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, translateMongoError(err, "User")
	}
	return &user, nil
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translateMongoError(err, "User")
	}
	return &user, nil
}

func (s *mongoUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.users().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
