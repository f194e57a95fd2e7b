// Package main provides moderator management utilities for EpoWrite.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"epowrite/internal/config"
	"epowrite/internal/database"
	"epowrite/internal/models"

	"gorm.io/gorm"
)

// ModeratorSetup provides a utility to grant or revoke moderator privileges
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/moderator/main.go grant <user_id>     - Grant moderator privileges")
		fmt.Println("  go run ./cmd/moderator/main.go revoke <user_id>    - Revoke moderator privileges")
		fmt.Println("  go run ./cmd/moderator/main.go list                - List all moderators")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "grant":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/moderator/main.go grant <user_id>")
			os.Exit(1)
		}
		grantModerator(db, os.Args[2])

	case "revoke":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/moderator/main.go revoke <user_id>")
			os.Exit(1)
		}
		revokeModerator(db, os.Args[2])

	case "list":
		listModerators(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func grantModerator(db *gorm.DB, userID string) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.IsModerator {
		fmt.Printf("User %s (ID: %d) is already a moderator\n", user.Username, user.ID)
		return
	}

	user.IsModerator = true
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to grant moderator privileges: %v", err)
	}

	fmt.Printf("✅ Successfully granted moderator privileges to %s (ID: %d)\n", user.Username, user.ID)
}

func revokeModerator(db *gorm.DB, userID string) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if !user.IsModerator {
		fmt.Printf("User %s (ID: %d) is not a moderator\n", user.Username, user.ID)
		return
	}

	user.IsModerator = false
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to revoke moderator privileges: %v", err)
	}

	fmt.Printf("✅ Successfully revoked moderator privileges from %s (ID: %d)\n", user.Username, user.ID)
}

func listModerators(db *gorm.DB) {
	var moderators []models.User
	if err := db.Where("is_moderator = ?", true).Find(&moderators).Error; err != nil {
		log.Fatalf("Failed to fetch moderators: %v", err)
	}

	if len(moderators) == 0 {
		fmt.Println("No moderators found in the system")
		return
	}

	fmt.Println("\n📋 Current Moderators:")
	fmt.Println("─────────────────────────────────────")
	for _, mod := range moderators {
		fmt.Printf("ID: %d | Username: %s | Email: %s\n", mod.ID, mod.Username, mod.Email)
	}
	fmt.Println("─────────────────────────────────────")
}
