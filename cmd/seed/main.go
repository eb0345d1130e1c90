// Command main runs the database seeder for StackIt.
package main

import (
	"flag"
	"log"

	"stackit/internal/config"
	"stackit/internal/database"
	"stackit/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numQuestions := flag.Int("questions", 200, "Number of questions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a built-in seeder preset (e.g., MegaPopulated)")
	presetFile := flag.String("preset-file", "", "Apply a preset loaded from a YAML file")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	switch {
	case *presetFile != "":
		log.Printf("Applying preset file: %s (ignoring other flags)\n", *presetFile)
	case *preset != "":
		log.Printf("Applying preset: %s (ignoring other flags)\n", *preset)
	default:
		log.Printf("Target: %d users, %d questions, clean=%v\n", *numUsers, *numQuestions, *shouldClean)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := seed.Tags(database.DB); err != nil {
		log.Fatalf("❌ Built-in tag seeding failed: %v", err)
	}

	switch {
	case *presetFile != "":
		p, err := seed.LoadPreset(*presetFile)
		if err != nil {
			log.Fatalf("❌ Preset load failed: %v", err)
		}
		if err := s.Apply(p); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	case *preset != "":
		if err := s.ApplyPreset(*preset); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	default:
		users, err := s.SeedCommunity(*numUsers)
		if err != nil {
			log.Fatalf("❌ User seeding failed: %v", err)
		}
		if _, err = s.SeedEngagement(users, *numQuestions); err != nil {
			log.Fatalf("❌ Engagement seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
