package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Patient struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"user" bson:"user"`
	ProfilePicture   string             `json:"profilePicture" bson:"profilePicture"`
	Name             string             `json:"name" bson:"name"`
	Age              int                `json:"age" bson:"age"`
	PhoneNumber      string             `json:"phoneNumber" bson:"phoneNumber"`
	HistoryOfSurgery []string           `json:"historyOfSurgery" bson:"historyOfSurgery"`
	HistoryOfIllness []string           `json:"historyOfIllness" bson:"historyOfIllness"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PatientUpdate carries the mutable profile fields. Nil means leave unchanged.
type PatientUpdate struct {
	Name             *string
	Age              *int
	PhoneNumber      *string
	HistoryOfSurgery []string
	HistoryOfIllness []string
	ProfilePicture   *string
}
