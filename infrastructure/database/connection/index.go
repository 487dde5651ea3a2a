package connection

import (
	"vericlass.io/infrastructure/database/connection/cache"
	"vericlass.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase() {
	datastore.ConnectToDatabase()
	cache.ConnectToCache()
}
