package entities

import (
	"time"

	"vericlass.io/application/utils"
)

// ClassSession is one scheduled sitting of a course section. StartTime and
// EndTime are wall-clock "HH:mm" strings; EndTime may be numerically earlier
// than StartTime when the session crosses midnight.
type ClassSession struct {
	Faculty      string `bson:"faculty" json:"faculty"`
	Course       string `bson:"course" json:"course"`
	Section      string `bson:"section" json:"section"`
	SessionDate  string `bson:"sessionDate" json:"sessionDate"` // yyyy-MM-dd
	StartTime    string `bson:"startTime" json:"startTime"`
	EndTime      string `bson:"endTime" json:"endTime"`
	GraceMinutes int    `bson:"graceMinutes" json:"graceMinutes"`
	EnrollmentID string `bson:"enrollmentID" json:"enrollmentID"`
	LocationName string `bson:"locationName" json:"locationName"`
	PresentCount int64  `bson:"presentCount" json:"presentCount"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model ClassSession) ParseModel() any {
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
