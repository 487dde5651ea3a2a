package startup

import (
	"vericlass.io/infrastructure/biometric"
	"vericlass.io/infrastructure/database"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/logger"
)

// Used to start services such as loggers, databases, queues, etc.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	biometric.InitializeBiometricService()
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	biometric.Service().Close()
	datastore.CleanUp()
}
