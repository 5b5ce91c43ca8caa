package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/SamuelMasih777/micro-feed/internal/logger"
	"github.com/SamuelMasih777/micro-feed/internal/models"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev populates the development database with realistic data
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Creating profiles...")
	profiles, err := s.seedProfiles(20)
	if err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}

	logger.Log.Info("Creating posts...")
	posts, err := s.seedPosts(profiles, 100)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Creating likes...")
	if err := s.seedLikes(profiles, posts, 300); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Seeding complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("posts", len(posts)),
	)
	return nil
}

// SeedTest populates the test database with a small fixed set of rows
func (s *Seeder) SeedTest() error {
	profiles, err := s.seedProfiles(3)
	if err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}
	if _, err := s.seedPosts(profiles, 10); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	return nil
}

// Clean removes all rows from the feed tables
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{&models.Like{}, &models.Post{}, &models.Profile{}} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Profiles returns the seeded profiles, for minting dev credentials
func (s *Seeder) Profiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Seeder) seedProfiles(count int) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, count)
	for i := 0; i < count; i++ {
		profile := models.Profile{
			ID:       uuid.New().String(),
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (s *Seeder) seedPosts(profiles []models.Profile, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		author := profiles[rand.Intn(len(profiles))]
		content := gofakeit.Sentence(3 + rand.Intn(20))
		if len([]rune(content)) > models.MaxContentLength {
			content = string([]rune(content)[:models.MaxContentLength])
		}
		post := models.Post{
			AuthorID: author.ID,
			Content:  content,
			// Spread creation times so pagination has distinct cursors
			CreatedAt: now.Add(-time.Duration(count-i) * time.Minute),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedLikes(profiles []models.Profile, posts []models.Post, count int) error {
	created := 0
	for attempts := 0; created < count && attempts < count*3; attempts++ {
		like := models.Like{
			PostID: posts[rand.Intn(len(posts))].ID,
			UserID: profiles[rand.Intn(len(profiles))].ID,
		}
		err := s.db.Create(&like).Error
		if err == nil {
			created++
			continue
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return err
	}
	return nil
}
