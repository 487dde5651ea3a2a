package entities

import (
	"time"

	"vericlass.io/application/utils"
)

// FaceProfile stores a student's reference face embedding. The vector is only
// ever produced by the embedding extractor; it is opaque to everything else.
type FaceProfile struct {
	StudentID string    `bson:"studentID" json:"studentID"`
	Embedding []float32 `bson:"embedding" json:"-"`
	Dimension int       `bson:"dimension" json:"dimension"`
	ModelName string    `bson:"modelName" json:"modelName"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model FaceProfile) ParseModel() any {
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
