package entities

import (
	"time"

	"vericlass.io/application/utils"
)

// This represents a student enrolled on vericlass
type Student struct {
	MatricNumber string `bson:"matricNumber" json:"matricNumber"`
	FullName     string `bson:"fullName" json:"fullName"`
	Faculty      string `bson:"faculty" json:"faculty"`
	Course       string `bson:"course" json:"course"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	Deactivated  bool   `bson:"deactivated" json:"deactivated"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model Student) ParseModel() any {
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
