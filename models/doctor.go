package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Doctor struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID            primitive.ObjectID `json:"user" bson:"user"`
	ProfilePicture    string             `json:"profilePicture" bson:"profilePicture"`
	Name              string             `json:"name" bson:"name"`
	Specialty         string             `json:"specialty" bson:"specialty"`
	PhoneNumber       string             `json:"phoneNumber" bson:"phoneNumber"`
	YearsOfExperience int                `json:"yearsOfExperience" bson:"yearsOfExperience"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DoctorUpdate carries the mutable profile fields. Nil means leave unchanged.
type DoctorUpdate struct {
	Name              *string
	Specialty         *string
	PhoneNumber       *string
	YearsOfExperience *int
	ProfilePicture    *string
}
