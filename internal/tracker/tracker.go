// Package tracker loads the pets of an account and keeps them refreshed.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// ErrPetNotFound is returned when no loaded pet has the requested id.
var ErrPetNotFound = errors.New("pet not found")

// Queryer is the query service plus household discovery.
type Queryer interface {
	pet.QueryService
	FetchHouseholdPets(ctx context.Context, session string) ([]json.RawMessage, error)
}

// Sessions hands out session ids and forgets them once the service rejects them.
type Sessions interface {
	GetToken(ctx context.Context, key string) (string, error)
	Invalidate(key string)
}

// Sink receives a pet view after every refresh.
type Sink interface {
	Publish(ctx context.Context, view PetView) error
}

// PetView is a copy of a pet's state. Location and Stats are nil until fetched.
type PetView struct {
	ID          string           `json:"id"`
	Profile     pet.Profile      `json:"profile"`
	BirthDate   time.Time        `json:"birthDate"`
	Device      *pet.DeviceState `json:"device,omitempty"`
	Location    *pet.Location    `json:"location,omitempty"`
	Stats       *pet.Stats       `json:"stats,omitempty"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// Config holds the tracker settings.
type Config struct {
	// SessionKey is the token cache key of the account.
	SessionKey string
	// Concurrency bounds the number of pets refreshed at once.
	Concurrency int
	// ReloadEvery reloads the household pets every N polls so new pets and changed
	// details are picked up. Defaults to 12.
	ReloadEvery int
	// Sink is optional.
	Sink Sink
}

type entry struct {
	mu  sync.Mutex
	pet *pet.Pet
}

// Tracker owns the pets of one account. Calls on a single pet are serialized.
type Tracker struct {
	query    Queryer
	sessions Sessions
	cfg      Config
	logger   *zerolog.Logger

	// polls is only touched by the Run goroutine.
	polls int

	mu    sync.RWMutex
	pets  map[string]*entry
	order []string
}

// New creates a tracker. Load must be called before pets are available.
func New(query Queryer, sessions Sessions, cfg Config, logger zerolog.Logger) *Tracker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.ReloadEvery < 1 {
		cfg.ReloadEvery = 12
	}
	l := logger.With().Str("component", "tracker").Logger()
	return &Tracker{
		query:    query,
		sessions: sessions,
		cfg:      cfg,
		logger:   &l,
		pets:     map[string]*entry{},
	}
}

// Load fetches every pet of the account and applies its details. Pets that are already
// tracked keep their location and stats. Pets whose details cannot be applied are skipped.
func (t *Tracker) Load(ctx context.Context) error {
	session, err := t.session(ctx)
	if err != nil {
		return err
	}
	docs, err := t.query.FetchHouseholdPets(ctx, session)
	if err != nil {
		t.checkAuth(err)
		return fmt.Errorf("failed to fetch household pets: %w", err)
	}

	loaded := 0
	for _, doc := range docs {
		id := gjson.GetBytes(doc, "id").String()
		e, err := t.entryFor(id)
		if err != nil {
			t.logger.Warn().Err(err).Msg("Skipping pet")
			continue
		}
		e.mu.Lock()
		err = e.pet.ApplyDetails(doc)
		e.mu.Unlock()
		if err != nil {
			t.logger.Warn().Err(err).Str("petId", id).Msg("Skipping pet with unusable details")
			continue
		}
		t.track(id, e)
		loaded++
	}
	t.logger.Info().Int("pets", loaded).Int("petDocuments", len(docs)).Msg("Loaded pets")
	return nil
}

func (t *Tracker) entryFor(id string) (*entry, error) {
	t.mu.RLock()
	e, ok := t.pets[id]
	t.mu.RUnlock()
	if ok {
		return e, nil
	}
	p, err := pet.New(id, t.query, *t.logger)
	if err != nil {
		return nil, err
	}
	return &entry{pet: p}, nil
}

func (t *Tracker) track(id string, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pets[id]; ok {
		return
	}
	t.pets[id] = e
	t.order = append(t.order, id)
}

// RefreshAll refreshes every tracked pet, at most Concurrency at a time.
func (t *Tracker) RefreshAll(ctx context.Context) error {
	session, err := t.session(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(t.cfg.Concurrency)
	for _, e := range t.entries() {
		e := e
		g.Go(func() error {
			_ = t.refresh(ctx, session, e)
			return nil
		})
	}
	return g.Wait()
}

// Refresh refreshes one pet and reports every failed part.
func (t *Tracker) Refresh(ctx context.Context, petID string) (PetView, error) {
	e, err := t.lookup(petID)
	if err != nil {
		return PetView{}, err
	}
	session, err := t.session(ctx)
	if err != nil {
		return PetView{}, err
	}
	err = t.refresh(ctx, session, e)
	e.mu.Lock()
	view := viewOf(e.pet)
	e.mu.Unlock()
	return view, err
}

// refresh runs the parts of pet.Pet.RefreshAll one by one, in the same order, to keep
// each part's Result.
func (t *Tracker) refresh(ctx context.Context, session string, e *entry) error {
	e.mu.Lock()
	results := []pet.Result{
		e.pet.RefreshDeviceDetails(ctx, session),
		e.pet.RefreshLocation(ctx, session),
		e.pet.RefreshStats(ctx, session),
	}
	view := viewOf(e.pet)
	e.mu.Unlock()

	var errs []error
	for _, res := range results {
		if !res.OK() {
			errs = append(errs, res.Err)
			t.checkAuth(res.Err)
		}
	}
	if t.cfg.Sink != nil {
		if err := t.cfg.Sink.Publish(ctx, view); err != nil {
			t.logger.Error().Err(err).Str("petId", view.ID).Msg("Failed to publish pet snapshot")
		}
	}
	return errors.Join(errs...)
}

// Run loads the pets, then refreshes them every interval until ctx is cancelled. The
// household pets are reloaded every ReloadEvery polls.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	t.poll(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.poll(ctx)
		}
	}
}

func (t *Tracker) poll(ctx context.Context) {
	t.polls++
	if len(t.entries()) == 0 || t.polls%t.cfg.ReloadEvery == 0 {
		if err := t.Load(ctx); err != nil {
			t.logger.Error().Err(err).Msg("Failed to load pets")
			return
		}
	}
	if err := t.RefreshAll(ctx); err != nil {
		t.logger.Error().Err(err).Msg("Failed to refresh pets")
	}
}

// Views returns a view of every tracked pet in load order.
func (t *Tracker) Views() []PetView {
	entries := t.entries()
	views := make([]PetView, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		views = append(views, viewOf(e.pet))
		e.mu.Unlock()
	}
	return views
}

// View returns the view of one pet.
func (t *Tracker) View(petID string) (PetView, error) {
	e, err := t.lookup(petID)
	if err != nil {
		return PetView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return viewOf(e.pet), nil
}

// SetLedColor changes the LED color of a pet's collar.
func (t *Tracker) SetLedColor(ctx context.Context, petID, colorCode string) (PetView, error) {
	return t.command(ctx, petID, func(p *pet.Pet, session string) pet.Result {
		return p.SetLedColor(ctx, session, colorCode)
	})
}

// SetLedPower turns the LED of a pet's collar on or off.
func (t *Tracker) SetLedPower(ctx context.Context, petID string, enabled bool) (PetView, error) {
	return t.command(ctx, petID, func(p *pet.Pet, session string) pet.Result {
		return p.SetLedOnOff(ctx, session, enabled)
	})
}

func (t *Tracker) command(ctx context.Context, petID string, fn func(*pet.Pet, string) pet.Result) (PetView, error) {
	e, err := t.lookup(petID)
	if err != nil {
		return PetView{}, err
	}
	session, err := t.session(ctx)
	if err != nil {
		return PetView{}, err
	}
	e.mu.Lock()
	res := fn(e.pet, session)
	view := viewOf(e.pet)
	e.mu.Unlock()
	if !res.OK() {
		t.checkAuth(res.Err)
		return view, res.Err
	}
	return view, nil
}

func (t *Tracker) lookup(petID string) (*entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.pets[petID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPetNotFound, petID)
	}
	return e, nil
}

func (t *Tracker) entries() []*entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := make([]*entry, 0, len(t.order))
	for _, id := range t.order {
		entries = append(entries, t.pets[id])
	}
	return entries
}

func (t *Tracker) session(ctx context.Context) (string, error) {
	session, err := t.sessions.GetToken(ctx, t.cfg.SessionKey)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (t *Tracker) checkAuth(err error) {
	if pet.Classify(err) == pet.KindAuth {
		t.logger.Warn().Err(err).Msg("Session rejected, logging in again on next request")
		t.sessions.Invalidate(t.cfg.SessionKey)
	}
}

func viewOf(p *pet.Pet) PetView {
	v := PetView{
		ID:          p.ID(),
		Profile:     p.Profile(),
		BirthDate:   p.BirthDate(),
		LastUpdated: p.LastUpdated(),
	}
	if d := p.Device(); d != nil {
		s := d.State()
		v.Device = &s
	}
	if loc, err := p.CurrentLocation(); err == nil {
		v.Location = &loc
	}
	if stats, err := p.Stats(); err == nil {
		v.Stats = &stats
	}
	return v
}
