// Command renameauthor changes a user's display name and rewrites the
// denormalized author name on all of their posts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"epowrite/internal/config"
	"epowrite/internal/database"
	"epowrite/internal/repository"
	"epowrite/internal/service"
)

func main() {
	userID := flag.Uint("user", 0, "ID of the user to rename")
	name := flag.String("name", "", "New display name")
	timeout := flag.Duration("timeout", 2*time.Minute, "Maximum time for the bulk rewrite")
	flag.Parse()

	if *userID == 0 || *name == "" {
		log.Fatal("usage: go run ./cmd/renameauthor/main.go -user <id> -name <display name>")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	users := service.NewUserService(userRepo, postRepo)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := users.RenameAuthor(ctx, *userID, *name); err != nil {
		log.Fatalf("Rename failed: %v", err)
	}

	fmt.Printf("✅ User %d renamed to %q; posts updated\n", *userID, *name)
}
