// Deletes every merchant, FAQ, setting and conversation. Irreversible.
//
// Usage: go run scripts/reset_data.go -confirm

package main

import (
	"flag"
	"fmt"
	"log"

	"narada_backend/internal/config"
	"narada_backend/pkg/database"
	"narada_backend/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	confirm := flag.Bool("confirm", false, "actually delete all data")
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	if !*confirm {
		log.Fatal("Refusing to reset without -confirm. This deletes ALL data.")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Resetting database...")

	// Children first so foreign keys never point at a deleted row.
	models := database.Models()
	for i := len(models) - 1; i >= 0; i-- {
		m := models[i]
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			log.Fatalf("Failed to resolve table: %v", err)
		}

		res := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m)
		if res.Error != nil {
			log.Fatalf("Failed to clear %s: %v", stmt.Schema.Table, res.Error)
		}
		fmt.Printf("%-15s %d rows deleted\n", stmt.Schema.Table, res.RowsAffected)
	}

	log.Println("Database reset complete")
}
