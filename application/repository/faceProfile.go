package repository

import (
	"sync"

	"vericlass.io/entities"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/database/repository/mongo"
)

var faceProfileOnce = sync.Once{}

var faceProfileRepository mongo.MongoRepository[entities.FaceProfile]

func FaceProfileRepo() *mongo.MongoRepository[entities.FaceProfile] {
	faceProfileOnce.Do(func() {
		faceProfileRepository = mongo.MongoRepository[entities.FaceProfile]{Model: datastore.FaceProfileModel}
	})
	return &faceProfileRepository
}
