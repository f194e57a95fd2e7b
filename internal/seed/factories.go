// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"epowrite/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune factory behavior.
type SeedOptions struct {
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// SkipBcrypt stores plaintext passwords; only useful to speed up large
	// development seeds.
	SkipBcrypt bool
	// MaxDays spreads generated created_at timestamps over this many days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := fmt.Sprintf("%s%s%d", first, last, gofakeit.Number(100, 999))
	user := &models.User{
		Username:    username,
		Email:       gofakeit.Email(),
		DisplayName: fmt.Sprintf("%s %s", first, last),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateModerator persists a user with the moderator bit set.
func (f *Factory) CreateModerator(overrides ...func(*models.User)) (*models.User, error) {
	withRole := append([]func(*models.User){func(u *models.User) {
		u.IsModerator = true
	}}, overrides...)
	return f.CreateUser(withRole...)
}

// BuildPost constructs a post for the given author without persisting it.
// Timestamps are spread over the configured window so feeds look lived-in.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:      gofakeit.Sentence(5),
		Body:       gofakeit.Paragraph(2, 4, 8, "\n\n"),
		AuthorID:   author.ID,
		AuthorName: author.Name(),
	}

	if f.rng.Float32() < 0.4 {
		post.Media = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// AddLike records a like from the user on the post, ignoring duplicates.
func (f *Factory) AddLike(user *models.User, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Exec(
		`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, post_id) DO NOTHING`,
		user.ID, post.ID, time.Now(),
	).Error
}

// AddComment appends a generated comment to the post.
func (f *Factory) AddComment(user *models.User, post *models.Post) error {
	comment := &models.Comment{
		PostID:     post.ID,
		AuthorName: user.Name(),
		Body:       gofakeit.Sentence(f.rng.Intn(15) + 3),
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(comment).Error
}

// AddReport files an abuse report and flags the post, like the live path does.
func (f *Factory) AddReport(user *models.User, post *models.Post) error {
	reasons := []models.ReportReason{
		models.ReportReasonSpam,
		models.ReportReasonHarassment,
		models.ReportReasonFalseInformation,
		models.ReportReasonHateSpeech,
		models.ReportReasonOther,
	}
	report := &models.Report{
		PostID:       post.ID,
		ReporterID:   user.ID,
		ReporterName: user.Name(),
		Reason:       reasons[f.rng.Intn(len(reasons))],
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("flagged", true).Error
	})
}
