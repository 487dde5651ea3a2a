package datastore

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"vericlass.io/application/utils"
	"vericlass.io/infrastructure/logger"
)

var (
	StudentModel          *mongo.Collection
	FaceProfileModel      *mongo.Collection
	ClassSessionModel     *mongo.Collection
	CampusLocationModel   *mongo.Collection
	AttendanceRecordModel *mongo.Collection
)

var dbClient *mongo.Client

func ConnectToDatabase() *context.CancelFunc {
	url := os.Getenv("DB_URL")

	if url == "" {
		logger.Error("mongo url missing")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)

	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return &cancel
	}

	dbClient = client
	db := client.Database(os.Getenv("DB_NAME"))
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
	return &cancel
}

func CleanUp() {
	if dbClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbClient.Disconnect(ctx); err != nil {
		logger.Warning("an error occured while disconnecting from the database", logger.LoggerOptions{Key: "error", Data: err})
	}
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	StudentModel = db.Collection("Students")
	StudentModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "matricNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, {
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index(),
	}})

	FaceProfileModel = db.Collection("FaceProfiles")
	FaceProfileModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "studentID", Value: 1}},
		Options: options.Index().SetUnique(true),
	}})

	ClassSessionModel = db.Collection("ClassSessions")
	ClassSessionModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "enrollmentID", Value: 1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "faculty", Value: 1}, {Key: "course", Value: 1}, {Key: "section", Value: 1}},
		Options: options.Index(),
	}})

	CampusLocationModel = db.Collection("CampusLocations")
	CampusLocationModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index(),
	}})

	// The unique compound index is the hard backstop against duplicate
	// attendance. The advisory lock in the pipeline only narrows the race.
	AttendanceRecordModel = db.Collection("AttendanceRecords")
	AttendanceRecordModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "studentID", Value: 1}, {Key: "enrollmentID", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, {
		Keys:    bson.D{{Key: "enrollmentID", Value: 1}, {Key: "recordedAt", Value: -1}},
		Options: options.Index(),
	}})

	logger.Info("mongodb indexes set up successfully")
}

// QueryTimeout returns the per-query context deadline. Defaults to 10s.
func QueryTimeout() time.Duration {
	seconds := utils.GetEnvInt("DB_QUERY_TIMEOUT_SECS", 10)
	return time.Duration(seconds) * time.Second
}
