package repository

import (
	"sync"

	"vericlass.io/entities"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/database/repository/mongo"
)

var classSessionOnce = sync.Once{}

var classSessionRepository mongo.MongoRepository[entities.ClassSession]

func ClassSessionRepo() *mongo.MongoRepository[entities.ClassSession] {
	classSessionOnce.Do(func() {
		classSessionRepository = mongo.MongoRepository[entities.ClassSession]{Model: datastore.ClassSessionModel}
	})
	return &classSessionRepository
}
