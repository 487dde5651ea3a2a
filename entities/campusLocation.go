package entities

import (
	"time"

	"vericlass.io/application/utils"
)

// CampusLocation is a registered geofenced point on campus. A location with a
// non-positive radius is considered incomplete and every geofence check
// against it fails closed.
type CampusLocation struct {
	Faculty      string  `bson:"faculty" json:"faculty"`
	Name         string  `bson:"name" json:"name"`
	Latitude     float64 `bson:"latitude" json:"latitude"`
	Longitude    float64 `bson:"longitude" json:"longitude"`
	RadiusMeters float64 `bson:"radiusMeters" json:"radiusMeters"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model CampusLocation) ParseModel() any {
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
