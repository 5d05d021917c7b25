package main

import (
	"flag"
	"log"

	"carbon-registry/internal/config"
	"carbon-registry/migrations"
)

func main() {
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := migrations.Run(cfg.Database.Driver, config.MigrateURL(cfg.Database), action); err != nil {
		log.Fatalf("❌ Migration %s failed: %v", action, err)
	}

	log.Printf("✅ Migration %s completed", action)
}
