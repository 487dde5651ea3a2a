package repository

import (
	"sync"

	"vericlass.io/entities"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/database/repository/mongo"
)

var campusLocationOnce = sync.Once{}

var campusLocationRepository mongo.MongoRepository[entities.CampusLocation]

func CampusLocationRepo() *mongo.MongoRepository[entities.CampusLocation] {
	campusLocationOnce.Do(func() {
		campusLocationRepository = mongo.MongoRepository[entities.CampusLocation]{Model: datastore.CampusLocationModel}
	})
	return &campusLocationRepository
}
