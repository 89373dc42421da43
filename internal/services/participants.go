package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/aasanchez0794/Angelito-Familiar/internal/models"

	"gorm.io/gorm"
)

// ErrParticipantNotFound means the phone has no row in the store. For
// admin lookups on roster phones this signals a store/roster mismatch.
var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantService owns all reads and writes of participant rows. Every
// mutation is a conditional single-row update so that first-registration and
// first-reveal happen exactly once even under concurrent requests.
type ParticipantService struct {
	db              *gorm.DB
	drawMaxAttempts int
}

func NewParticipantService(db *gorm.DB, drawMaxAttempts int) *ParticipantService {
	return &ParticipantService{db: db, drawMaxAttempts: drawMaxAttempts}
}

type RegistrationResult struct {
	Name   string
	PIN    string
	WasNew bool
}

type RevealResult struct {
	RecipientName string
	RevealedAt    time.Time
	First         bool
}

type Stats struct {
	Total      int64 `json:"total"`
	Registered int64 `json:"registered"`
	Revealed   int64 `json:"revealed"`
}

// Initialize seeds the store from the roster if it is empty. An already
// populated store is left untouched so the draw survives restarts. The
// count check and the inserts share one transaction, and the phone primary
// key makes a concurrent double-seed fail on insert instead of silently
// producing two different draws.
func (s *ParticipantService) Initialize(roster []models.RosterEntry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Participant{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("store already seeded with %d participants, keeping existing draw", count)
			return nil
		}

		phones := make([]string, len(roster))
		names := make(map[string]string, len(roster))
		for i, entry := range roster {
			phones[i] = entry.Phone
			names[entry.Phone] = entry.Name
		}

		assignments, err := GenerateAssignments(phones, s.drawMaxAttempts)
		if err != nil {
			return fmt.Errorf("draw failed: %w", err)
		}

		rows := make([]models.Participant, 0, len(assignments))
		for giver, receiver := range assignments {
			rows = append(rows, models.Participant{
				Phone:           giver,
				Name:            names[giver],
				AssignedToPhone: receiver,
				AssignedToName:  names[receiver],
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		log.Printf("store seeded with %d participants", len(rows))
		return nil
	})
}

func (s *ParticipantService) Fetch(phone string) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.First(&p, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Register marks the participant as registered and gives them a PIN, both at
// most once. The update is conditioned on registered_at still being NULL, so
// of two concurrent first registrations exactly one observes WasNew. The PIN
// column keeps any value an admin set beforehand.
func (s *ParticipantService) Register(phone string) (*RegistrationResult, error) {
	pin := generatePIN()
	res := s.db.Model(&models.Participant{}).
		Where("phone = ? AND registered_at IS NULL", phone).
		Updates(map[string]any{
			"registered_at": time.Now(),
			"pin":           gorm.Expr("COALESCE(pin, ?)", pin),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	p, err := s.Fetch(phone)
	if err != nil {
		return nil, err
	}

	result := &RegistrationResult{Name: p.Name, WasNew: res.RowsAffected == 1}
	if p.PIN != nil {
		result.PIN = *p.PIN
	}
	return result, nil
}

// RevealAssignment returns who the participant must gift and stamps
// revealed_at on first call. The conditional update keeps the timestamp
// stable: concurrent or repeated reveals all read back the same value.
// Credential checking is the caller's job.
func (s *ParticipantService) RevealAssignment(phone string) (*RevealResult, error) {
	res := s.db.Model(&models.Participant{}).
		Where("phone = ? AND revealed_at IS NULL", phone).
		Update("revealed_at", time.Now())
	if res.Error != nil {
		return nil, res.Error
	}

	p, err := s.Fetch(phone)
	if err != nil {
		return nil, err
	}
	if p.RevealedAt == nil {
		// The row exists but the stamp never landed; should not happen.
		return nil, fmt.Errorf("reveal for %s did not persist", phone)
	}

	return &RevealResult{
		RecipientName: p.AssignedToName,
		RevealedAt:    *p.RevealedAt,
		First:         res.RowsAffected == 1,
	}, nil
}

// ResetPIN overwrites the PIN unconditionally, whatever the registration or
// reveal state. Admin-only escape hatch for lost PINs.
func (s *ParticipantService) ResetPIN(phone string) (string, error) {
	pin := generatePIN()
	res := s.db.Model(&models.Participant{}).
		Where("phone = ?", phone).
		Update("pin", pin)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrParticipantNotFound
	}
	return pin, nil
}

func (s *ParticipantService) Stats() (*Stats, error) {
	var stats Stats
	if err := s.db.Model(&models.Participant{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Participant{}).
		Where("registered_at IS NOT NULL").Count(&stats.Registered).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Participant{}).
		Where("revealed_at IS NOT NULL").Count(&stats.Revealed).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Overview returns every participant ordered by name, for the admin view.
func (s *ParticipantService) Overview() ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Order("name asc").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func generatePIN() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
