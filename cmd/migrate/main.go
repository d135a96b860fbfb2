package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pageza/mealsnap/backend/config"
	"github.com/pageza/mealsnap/backend/internal/database"
)

func main() {
	// Parse command line flags
	status := flag.Bool("status", false, "Report whether the snapshot table exists without migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	if *status {
		if db.Migrator().HasTable(&database.KVSnapshot{}) {
			fmt.Println("Snapshot table is present.")
		} else {
			fmt.Println("Snapshot table is missing.")
		}
		return
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	fmt.Println("All migrations applied successfully.")
}
