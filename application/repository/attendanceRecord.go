package repository

import (
	"sync"

	"vericlass.io/entities"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/database/repository/mongo"
)

var attendanceRecordOnce = sync.Once{}

var attendanceRecordRepository mongo.MongoRepository[entities.AttendanceRecord]

func AttendanceRecordRepo() *mongo.MongoRepository[entities.AttendanceRecord] {
	attendanceRecordOnce.Do(func() {
		attendanceRecordRepository = mongo.MongoRepository[entities.AttendanceRecord]{Model: datastore.AttendanceRecordModel}
	})
	return &attendanceRecordRepository
}
