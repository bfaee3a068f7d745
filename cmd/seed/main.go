// Command main runs the database seeder for CodeLearn.
package main

import (
	"flag"
	"log"

	"codelearn/internal/config"
	"codelearn/internal/database"
	"codelearn/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	projects := flag.Int("projects", 3, "Saved projects per user")
	usage := flag.Int("usage", 10, "Usage events per user")
	password := flag.String("password", seed.DefaultPassword, "Password for every seeded user")
	keep := flag.Bool("keep", false, "Keep existing data instead of clearing it first")
	dryRun := flag.Bool("dry-run", false, "Build records without writing them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	res, err := seed.NewSeeder(db).Seed(seed.Options{
		Users:            *numUsers,
		ProjectsPerUser:  *projects,
		UsagePerUser:     *usage,
		Password:         *password,
		BcryptCost:       cfg.BcryptCost,
		DryRun:           *dryRun,
		KeepExistingData: *keep,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d projects, %d usage events", res.Users, res.Projects, res.Usage)
	log.Printf("All seeded users have the password: %s", *password)
}
