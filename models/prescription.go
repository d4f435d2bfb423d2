package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PrescriptionDraft = "draft"
	PrescriptionSent  = "sent"
)

type Medicine struct {
	Name      string `json:"name" bson:"name"`
	Dosage    string `json:"dosage" bson:"dosage"`
	Frequency string `json:"frequency" bson:"frequency"`
	Duration  string `json:"duration" bson:"duration"`
}

type Prescription struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConsultationID primitive.ObjectID `json:"consultation" bson:"consultation"`
	CareToBeTaken  string             `json:"careToBeTaken" bson:"careToBeTaken"`
	Medicines      []Medicine         `json:"medicines" bson:"medicines"`
	PDFURL         string             `json:"pdfUrl" bson:"pdfUrl"`
	Status         string             `json:"status" bson:"status"`
	// Set when publishing the rendered document to object storage failed and
	// the degrade policy kept the request alive; drives the retry sweep.
	UploadFailedAt *time.Time `json:"-" bson:"uploadFailedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// PrescriptionUpdate carries the editable fields. Nil means leave unchanged.
type PrescriptionUpdate struct {
	CareToBeTaken *string
	Medicines     []Medicine
}
