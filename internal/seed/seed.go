package seed

import (
	"fmt"
	"log"

	"epowrite/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	Factory     SeedOptions
}

// Seed populates the database with demo users, posts and interactions.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts.Factory)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		var (
			user *models.User
			err  error
		)
		// Every tenth account is a moderator so the review queues are usable.
		if i%10 == 0 {
			user, err = f.CreateModerator()
		} else {
			user, err = f.CreateUser()
		}
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users could be created")
	}
	log.Printf("✓ %d users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		posts = append(posts, f.BuildPost(author))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := seedInteractions(f, users, posts); err != nil {
		return fmt.Errorf("failed to seed interactions: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// seedInteractions sprinkles likes, comments and a few reports over the posts
// so the feed, reported queue and deleted queue all have content.
func seedInteractions(f *Factory, users []*models.User, posts []*models.Post) error {
	var likes, comments, reports int
	for _, post := range posts {
		for _, user := range users {
			if f.rng.Float32() < 0.15 {
				if err := f.AddLike(user, post); err != nil {
					return err
				}
				likes++
			}
			if f.rng.Float32() < 0.05 {
				if err := f.AddComment(user, post); err != nil {
					return err
				}
				comments++
			}
		}
		// Roughly one post in twenty picks up a report.
		if f.rng.Float32() < 0.05 {
			reporter := users[f.rng.Intn(len(users))]
			if err := f.AddReport(reporter, post); err != nil {
				return err
			}
			reports++
		}
	}
	log.Printf("✓ %d likes, %d comments, %d reports created", likes, comments, reports)
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reports, comments, likes, notifications, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
