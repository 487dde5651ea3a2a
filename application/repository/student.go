package repository

import (
	"sync"

	"vericlass.io/entities"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/database/repository/mongo"
)

var studentOnce = sync.Once{}

var studentRepository mongo.MongoRepository[entities.Student]

func StudentRepo() *mongo.MongoRepository[entities.Student] {
	studentOnce.Do(func() {
		studentRepository = mongo.MongoRepository[entities.Student]{Model: datastore.StudentModel}
	})
	return &studentRepository
}
