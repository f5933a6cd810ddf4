package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pulseboard/models"
)

// ProfileStore is the persistence boundary for profiles. Whether it is
// backed by MongoDB or kept in memory is irrelevant to the aggregation core.
type ProfileStore interface {
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, profile models.Profile) error
	Remove(ctx context.Context, id string) error
}

var ErrProfileNotFound = fmt.Errorf("profile not found")

// ProfileService owns the set of known profiles and which one is active.
// The active id is an in-memory UI annotation, never persisted and never an
// input to ranking. Aggregation passes snapshot List once at fan-out start;
// mutations after the snapshot don't affect a pass already in progress.
type ProfileService struct {
	store  ProfileStore
	client *OuraClient
	log    zerolog.Logger

	mu       sync.RWMutex
	activeID string
}

func NewProfileService(store ProfileStore, client *OuraClient, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		client: client,
		log:    logger.With().Str("component", "profiles").Logger(),
	}
}

// List returns a snapshot of all known profiles.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.store.List(ctx)
}

// Get resolves one profile by id.
func (s *ProfileService) Get(ctx context.Context, id string) (models.Profile, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	for _, p := range profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
}

// Register adds a profile for a freshly captured access token. The vendor's
// personal_info endpoint both validates the token and supplies identity. If
// an existing profile carries the same email, this is a re-authentication:
// that profile is updated in place and keeps its id.
func (s *ProfileService) Register(ctx context.Context, name, token string) (models.Profile, error) {
	info, err := s.client.PersonalInfo(ctx, token)
	if err != nil {
		return models.Profile{}, fmt.Errorf("token validation failed: %w", err)
	}

	profile := models.Profile{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         info.Email,
		Token:         token,
		Age:           info.Age,
		Weight:        info.Weight,
		Height:        info.Height,
		BiologicalSex: info.BiologicalSex,
		LastUpdated:   time.Now(),
	}

	if info.Email != "" {
		existing, err := s.store.List(ctx)
		if err != nil {
			return models.Profile{}, err
		}
		for _, p := range existing {
			if p.Email == info.Email {
				profile.ID = p.ID
				if name == "" {
					profile.Name = p.Name
				}
				s.log.Info().Str("profile", p.ID).Msg("re-authenticating existing profile")
				break
			}
		}
	}

	if err := s.store.Upsert(ctx, profile); err != nil {
		return models.Profile{}, err
	}

	s.mu.Lock()
	if s.activeID == "" {
		s.activeID = profile.ID
	}
	s.mu.Unlock()

	return profile, nil
}

// Remove deletes a profile and clears the active marker if it pointed there.
func (s *ProfileService) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()
	return nil
}

// Deauthorize clears a profile's token after the vendor rejected it with a
// 401. The profile keeps its identity and history; it just needs a fresh
// OAuth pass. Only the offending profile is touched.
func (s *ProfileService) Deauthorize(ctx context.Context, id string) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	profile.Token = ""
	profile.LastUpdated = time.Now()
	s.log.Warn().Str("profile", id).Msg("token rejected by vendor, deauthorizing profile")
	return s.store.Upsert(ctx, profile)
}

func (s *ProfileService) SetActive(id string) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

func (s *ProfileService) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// MemoryProfileStore is an in-process ProfileStore used by tests and by
// setups that don't want a database.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
	order    []string
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]models.Profile)}
}

func (s *MemoryProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.profiles[id])
	}
	return out, nil
}

func (s *MemoryProfileStore) Upsert(ctx context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.ID]; !exists {
		s.order = append(s.order, profile.ID)
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *MemoryProfileStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
