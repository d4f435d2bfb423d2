package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Consultation overall status. pending → in-progress when the assigned doctor
// acknowledges the booking, and any non-completed status → completed when a
// prescription is created for it.
const (
	ConsultationPending    = "pending"
	ConsultationInProgress = "in-progress"
	ConsultationCompleted  = "completed"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

type RecentSurgery struct {
	Surgery  string `json:"surgery" bson:"surgery"`
	TimeSpan string `json:"timeSpan" bson:"timeSpan"`
}

type FamilyMedicalHistory struct {
	Diabetics string `json:"diabetics" bson:"diabetics"`
	Allergies string `json:"allergies" bson:"allergies"`
	Others    string `json:"others" bson:"others"`
}

type Payment struct {
	TransactionID string `json:"transactionId" bson:"transactionId"`
	Status        string `json:"status" bson:"status"`
}

type Consultation struct {
	ID                    primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	PatientID             primitive.ObjectID   `json:"patient" bson:"patient"`
	DoctorID              primitive.ObjectID   `json:"doctor" bson:"doctor"`
	CurrentIllnessHistory string               `json:"currentIllnessHistory" bson:"currentIllnessHistory"`
	RecentSurgery         RecentSurgery        `json:"recentSurgery" bson:"recentSurgery"`
	FamilyMedicalHistory  FamilyMedicalHistory `json:"familyMedicalHistory" bson:"familyMedicalHistory"`
	Payment               Payment              `json:"payment" bson:"payment"`
	Status                string               `json:"status" bson:"status"`
	// Version is bumped on every status write so transitions can be observed
	// exactly once under concurrent writers.
	Version        int64      `json:"version" bson:"version"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty" bson:"acknowledgedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`

	// Counterpart snapshots attached by listing endpoints, never persisted.
	DoctorProfile  *Doctor  `json:"doctorProfile,omitempty" bson:"-"`
	PatientProfile *Patient `json:"patientProfile,omitempty" bson:"-"`
}
