package seed

import (
	"fmt"
	"log/slog"

	"codelearn/models"

	"gorm.io/gorm"
)

// Result summarizes a seeding run.
type Result struct {
	Users    int
	Projects int
	Usage    int
}

// Seeder populates the database with demo users, projects and usage events.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder for db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes every row from the application tables, children first.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.FeatureUsage{},
		&models.SavedProject{},
		&models.UserFeedback{},
		&models.EarlyAccessSignup{},
		&models.User{},
	}
	for _, t := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	return nil
}

// Seed creates opts.Users users, each with projects and usage history.
func (s *Seeder) Seed(opts Options) (*Result, error) {
	if !opts.KeepExistingData && !opts.DryRun {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	f, err := NewFactory(s.db, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		res.Users++

		for j := 0; j < opts.ProjectsPerUser; j++ {
			if _, err := f.CreateProject(user); err != nil {
				return res, fmt.Errorf("create project: %w", err)
			}
			res.Projects++
		}

		id := user.ID
		events := f.BuildUsage(&id, opts.UsagePerUser)
		if err := f.CreateUsageBatch(events); err != nil {
			return res, fmt.Errorf("create usage: %w", err)
		}
		res.Usage += len(events)
	}

	slog.Info("seeding complete",
		slog.Int("users", res.Users),
		slog.Int("projects", res.Projects),
		slog.Int("usage_events", res.Usage),
	)
	return res, nil
}
