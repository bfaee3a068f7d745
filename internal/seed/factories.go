// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"codelearn/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls what the seeder creates.
type Options struct {
	Users            int
	ProjectsPerUser  int
	UsagePerUser     int
	Password         string
	BcryptCost       int
	MaxDays          int
	DryRun           bool
	KeepExistingData bool
}

// DefaultPassword is the password given to every seeded user unless overridden.
const DefaultPassword = "password123"

var programmingLanguages = []string{"Go", "Python", "JavaScript", "TypeScript", "Rust", "Java"}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   Options
	hash   string
	rng    *rand.Rand
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}

	// Every seeded user shares one hash; hashing per user dominates seeding time.
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		hash:   string(hash),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}, nil
}

// username returns a fake username restricted to [A-Za-z0-9_-] and at most 30 chars.
func username() string {
	var b strings.Builder
	for _, r := range gofakeit.Username() {
		if r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) > 24 {
		name = name[:24]
	}
	return fmt.Sprintf("%s%d", name, gofakeit.Number(100, 99999))
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a user whose password is the seed password.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := username()
	user := &models.User{
		Username:       name,
		Email:          strings.ToLower(name) + "@" + gofakeit.DomainName(),
		Password:       f.hash,
		FullName:       gofakeit.Name(),
		PhoneNumber:    gofakeit.Phone(),
		Profession:     gofakeit.JobTitle(),
		ReferralSource: gofakeit.RandomString([]string{"search", "friend", "social", "newsletter"}),
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		slog.Info("[dry-run] create user", slog.String("username", user.Username))
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProject constructs and persists a saved project owned by user.
func (f *Factory) CreateProject(user *models.User, overrides ...func(*models.SavedProject)) (*models.SavedProject, error) {
	lang := gofakeit.RandomString(programmingLanguages)
	project := &models.SavedProject{
		UserID:      user.ID,
		Title:       fmt.Sprintf("%s %s in %s", gofakeit.HackerAdjective(), gofakeit.HackerNoun(), lang),
		Description: gofakeit.Sentence(12),
		Content:     gofakeit.Paragraph(3, 4, 10, "\n\n"),
		CreatedAt:   f.pastTime(),
	}

	for _, override := range overrides {
		override(project)
	}

	if f.opts.DryRun {
		f.nextID++
		project.ID = f.nextID
		return project, nil
	}

	if err := f.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// BuildUsage returns n usage events for userID spread over random features.
// A nil userID builds anonymous events.
func (f *Factory) BuildUsage(userID *uint, n int) []models.FeatureUsage {
	events := make([]models.FeatureUsage, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.FeatureUsage{
			UserID:      userID,
			FeatureType: models.Features[f.rng.Intn(len(models.Features))],
			UsedAt:      f.pastTime(),
		})
	}
	return events
}

// CreateUsageBatch persists events in a single insert when possible.
func (f *Factory) CreateUsageBatch(events []models.FeatureUsage) error {
	if len(events) == 0 || f.opts.DryRun {
		return nil
	}
	return f.db.CreateInBatches(events, 100).Error
}
