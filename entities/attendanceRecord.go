package entities

import (
	"time"

	"vericlass.io/application/utils"
)

// AttendanceRecord is the persisted outcome of a successful scan. At most one
// record may ever exist per (StudentID, EnrollmentID) pair; RecordedAt is
// assigned by the server, never taken from the client.
type AttendanceRecord struct {
	StudentID    string    `bson:"studentID" json:"studentID"`
	MatricNumber string    `bson:"matricNumber" json:"matricNumber"`
	StudentName  string    `bson:"studentName" json:"studentName"`
	EnrollmentID string    `bson:"enrollmentID" json:"enrollmentID"`
	Faculty      string    `bson:"faculty" json:"faculty"`
	Course       string    `bson:"course" json:"course"`
	Section      string    `bson:"section" json:"section"`
	TimeRange    string    `bson:"timeRange" json:"timeRange"`
	LocationName string    `bson:"locationName" json:"locationName"`
	Latitude     float64   `bson:"latitude" json:"latitude"`
	Longitude    float64   `bson:"longitude" json:"longitude"`
	Status       string    `bson:"status" json:"status"`
	RecordedAt   time.Time `bson:"recordedAt" json:"recordedAt"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model AttendanceRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
