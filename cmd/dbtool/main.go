package main

import (
	"flag"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// dbtool creates the schema on the configured database, or on the one given
// by flags.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	driver := flag.String("driver", config.Get("DB_DRIVER", "sqlite"), "database driver: sqlite or postgres")
	dsn := flag.String("dsn", "", "database url or sqlite path (default DATABASE_URL, then DB_PATH)")
	flag.Parse()

	if *dsn == "" {
		*dsn = config.Get("DATABASE_URL", "")
	}
	if *dsn == "" && *driver == "sqlite" {
		*dsn = config.Get("DB_PATH", "data/app.db")
	}
	if *dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(*driver, *dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Info("Schema ready.")
}
