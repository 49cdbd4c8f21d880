// Package store persists accepted service-center submissions. The rest
// of the application treats it as an opaque create/read collaborator: a
// postgres-backed implementation is used when a DSN is configured, an
// in-memory one otherwise.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"center-onboard/internal/form"
)

// ErrCenterNotFound is returned when a center id does not exist.
var ErrCenterNotFound = errors.New("service center not found")

// ServiceCenter is one persisted onboarding submission.
type ServiceCenter struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"createdAt"`
	Name       string         `gorm:"not null" json:"name"`
	Phone      string         `gorm:"not null" json:"phone"`
	Email      string         `gorm:"not null" json:"email"`
	City       string         `json:"city"`
	State      string         `json:"state"`
	ZipCode    string         `json:"zipCode"`
	Country    string         `json:"country"`
	Latitude   string         `json:"latitude"`
	Longitude  string         `json:"longitude"`
	Categories pq.StringArray `gorm:"type:text[]" json:"categories"`
	ImageIDs   pq.StringArray `gorm:"type:text[]" json:"imageIds"`
}

// FromRecord builds a ServiceCenter from a validated form record.
func FromRecord(r form.Record) *ServiceCenter {
	categories := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		categories = append(categories, string(c))
	}

	imageIDs := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		imageIDs = append(imageIDs, img.ID)
	}

	return &ServiceCenter{
		Name:       r.CenterName,
		Phone:      r.Phone,
		Email:      r.Email,
		City:       r.City,
		State:      r.State,
		ZipCode:    r.ZipCode,
		Country:    r.Country,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Categories: pq.StringArray(categories),
		ImageIDs:   pq.StringArray(imageIDs),
	}
}

// Centers is the submission collaborator contract.
type Centers interface {
	Create(center *ServiceCenter) error
	Get(id uint) (*ServiceCenter, error)
	List(limit int) ([]*ServiceCenter, error)
}

// GormStore implements Centers on postgres via gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to postgres and migrates the schema.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(&ServiceCenter{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(center *ServiceCenter) error {
	if err := s.db.Create(center).Error; err != nil {
		return fmt.Errorf("creating center: %w", err)
	}
	return nil
}

func (s *GormStore) Get(id uint) (*ServiceCenter, error) {
	var center ServiceCenter
	if err := s.db.First(&center, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCenterNotFound
		}
		return nil, fmt.Errorf("fetching center: %w", err)
	}
	return &center, nil
}

func (s *GormStore) List(limit int) ([]*ServiceCenter, error) {
	var centers []*ServiceCenter
	if err := s.db.Order("created_at desc").Limit(limit).Find(&centers).Error; err != nil {
		return nil, fmt.Errorf("listing centers: %w", err)
	}
	return centers, nil
}

// MemoryStore implements Centers in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  uint
	centers map[uint]*ServiceCenter
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		centers: make(map[uint]*ServiceCenter),
	}
}

func (s *MemoryStore) Create(center *ServiceCenter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	center.ID = s.nextID
	center.CreatedAt = time.Now()
	s.nextID++

	copied := *center
	s.centers[center.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(id uint) (*ServiceCenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	center, ok := s.centers[id]
	if !ok {
		return nil, ErrCenterNotFound
	}

	copied := *center
	return &copied, nil
}

func (s *MemoryStore) List(limit int) ([]*ServiceCenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	centers := make([]*ServiceCenter, 0, len(s.centers))
	for _, center := range s.centers {
		copied := *center
		centers = append(centers, &copied)
	}

	sort.Slice(centers, func(i, j int) bool {
		return centers[i].CreatedAt.After(centers[j].CreatedAt)
	})

	if limit > 0 && len(centers) > limit {
		centers = centers[:limit]
	}
	return centers, nil
}
