package database

import (
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the embedded database file. The node must keep working
// with no network at all, so everything persists locally.
func ConnectDB() *gorm.DB {
	path := os.Getenv("SPPG_DB_PATH")
	if path == "" {
		path = "sppg.db"
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		log.Fatal("Failed to open local database. \n", err)
	}

	log.Println("Local database ready:", path)
	return db
}
