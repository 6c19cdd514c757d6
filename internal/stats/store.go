// Package stats owns the profile registry and the per-user, per-day
// statistics ledger. All counters are append-only; day goals are frozen
// at day creation; profiles are write-once.
package stats

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aquabotdev/aquabot/internal/goal"
)

// DayKeyFormat is how calendar days are keyed in the ledger and the
// journal.
const DayKeyFormat = "2006-01-02"

// Profile holds a user's fixed physiological attributes and the
// baseline goals derived from them at creation time.
type Profile struct {
	UserID      string
	ChatID      string
	WeightKg    float64
	HeightCm    float64
	AgeYears    float64
	ActivityMin float64
	City        string

	BaseWaterGoalML     int
	BaseCalorieGoalKcal float64

	CreatedAt time.Time
}

// DailyStats is the mutable ledger for one (user, day) pair. WaterGoalML
// and CalorieGoalKcal are set once when the day record is created and
// never recomputed.
type DailyStats struct {
	LoggedWaterML      float64
	AdditionalWaterML  int
	LoggedCaloriesKcal float64
	BurnedCaloriesKcal float64
	WaterGoalML        int
	CalorieGoalKcal    float64
}

// Metric selects which counter Series returns.
type Metric string

const (
	MetricWater    Metric = "logged_water"
	MetricCalories Metric = "logged_calories"
)

// WeatherSource supplies the current temperature for a city at day
// creation. A false second return means no reading is available; day
// creation proceeds without the heat bonus.
type WeatherSource interface {
	Temperature(ctx context.Context, city string) (float64, bool)
}

// Store is the single source of truth for profiles and daily ledgers.
// One instance is created at process start and passed by handle; a
// single mutex serializes every read-modify-write (expected contention
// is low).
type Store struct {
	mu      sync.Mutex
	weather WeatherSource
	journal *Journal

	profiles map[string]*Profile
	days     map[string]map[string]*DailyStats
	dayOrder map[string][]string // day keys in first-touch order, per user
}

func NewStore(weather WeatherSource) *Store {
	return &Store{
		weather:  weather,
		profiles: make(map[string]*Profile),
		days:     make(map[string]map[string]*DailyStats),
		dayOrder: make(map[string][]string),
	}
}

// AttachJournal replays the journal into the store and enables
// write-through persistence for subsequent mutations.
func (s *Store) AttachJournal(j *Journal) error {
	profiles, days, err := j.LoadAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range profiles {
		p := profiles[i]
		s.profiles[p.UserID] = &p
	}
	for _, rec := range days {
		st := rec.Stats
		if s.days[rec.UserID] == nil {
			s.days[rec.UserID] = make(map[string]*DailyStats)
		}
		s.days[rec.UserID][rec.Day] = &st
		s.dayOrder[rec.UserID] = append(s.dayOrder[rec.UserID], rec.Day)
	}
	s.journal = j
	return nil
}

type bound struct {
	field    string
	min, max float64
}

var profileBounds = []bound{
	{"weight", 20, 300},
	{"height", 50, 250},
	{"age", 0, 150},
	{"activity", 0, 86400},
}

// CreateProfile registers a new user. It fails with ErrDuplicateProfile
// if the user already has one, and with *ValidationError if any field is
// outside its bounds (both bounds exclusive). Baseline goals are derived
// here, once.
func (s *Store) CreateProfile(userID, chatID string, weightKg, heightCm, ageYears, activityMin float64, city string) (Profile, error) {
	values := []float64{weightKg, heightCm, ageYears, activityMin}
	for i, b := range profileBounds {
		if v := values[i]; !(b.min < v && v < b.max) {
			return Profile{}, &ValidationError{Field: b.field, Value: v, Min: b.min, Max: b.max}
		}
	}
	if city == "" {
		return Profile{}, &ValidationError{Field: "city"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; ok {
		return Profile{}, ErrDuplicateProfile
	}

	p := &Profile{
		UserID:              userID,
		ChatID:              chatID,
		WeightKg:            weightKg,
		HeightCm:            heightCm,
		AgeYears:            ageYears,
		ActivityMin:         activityMin,
		City:                city,
		BaseWaterGoalML:     goal.BaseWater(weightKg, activityMin),
		BaseCalorieGoalKcal: goal.BaseCalories(weightKg, heightCm, ageYears),
		CreatedAt:           time.Now(),
	}
	s.profiles[userID] = p
	s.persistProfile(p)
	return *p, nil
}

func (s *Store) ProfileExists(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.profiles[userID]
	return ok
}

func (s *Store) Profile(userID string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrUnknownUser
	}
	return *p, nil
}

// Profiles returns every registered profile, for broadcast-style
// consumers such as the reminder scheduler.
func (s *Store) Profiles() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	return out
}

// EnsureDay lazily creates the ledger record for (user, day). It is
// idempotent: an existing record is returned untouched, so goals never
// change retroactively. The weather lookup happens only on first touch;
// a failed lookup means no heat bonus, never a failed creation.
func (s *Store) EnsureDay(ctx context.Context, userID string, day time.Time) (DailyStats, error) {
	key := day.Format(DayKeyFormat)

	s.mu.Lock()
	p, ok := s.profiles[userID]
	if !ok {
		s.mu.Unlock()
		return DailyStats{}, ErrUnknownUser
	}
	if st, ok := s.days[userID][key]; ok {
		out := *st
		s.mu.Unlock()
		return out, nil
	}
	city := p.City
	baseWater := p.BaseWaterGoalML
	baseCal := p.BaseCalorieGoalKcal
	activity := p.ActivityMin
	s.mu.Unlock()

	// Weather is the only external dependency; query it outside the lock.
	var temp float64
	var hasTemp bool
	if s.weather != nil {
		temp, hasTemp = s.weather.Temperature(ctx, city)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: another command for this user may have created the day
	// while the weather call was in flight.
	if st, ok := s.days[userID][key]; ok {
		return *st, nil
	}
	st := &DailyStats{
		WaterGoalML:     goal.DayWater(baseWater, temp, hasTemp),
		CalorieGoalKcal: goal.DayCalories(baseCal, activity),
	}
	if s.days[userID] == nil {
		s.days[userID] = make(map[string]*DailyStats)
	}
	s.days[userID][key] = st
	s.dayOrder[userID] = append(s.dayOrder[userID], key)
	s.persistDay(userID, key, st)
	return *st, nil
}

// AddWater adds to the day's logged water. Volume must be positive.
func (s *Store) AddWater(ctx context.Context, userID string, day time.Time, volumeML float64) error {
	if volumeML <= 0 {
		return &ValidationError{Field: "volume", Value: volumeML, Min: 0}
	}
	return s.mutate(ctx, userID, day, func(st *DailyStats) {
		st.LoggedWaterML += volumeML
	})
}

// AddCalories adds consumed calories to the day.
func (s *Store) AddCalories(ctx context.Context, userID string, day time.Time, amountKcal float64) error {
	if amountKcal < 0 {
		return &ValidationError{Field: "calories", Value: amountKcal, Min: 0}
	}
	return s.mutate(ctx, userID, day, func(st *DailyStats) {
		st.LoggedCaloriesKcal += amountKcal
	})
}

// BurnCalories adds burned calories to the day.
func (s *Store) BurnCalories(ctx context.Context, userID string, day time.Time, amountKcal float64) error {
	if amountKcal < 0 {
		return &ValidationError{Field: "calories", Value: amountKcal, Min: 0}
	}
	return s.mutate(ctx, userID, day, func(st *DailyStats) {
		st.BurnedCaloriesKcal += amountKcal
	})
}

// IncreaseWaterGoal adds extra hydration requirement earned from
// exercise. The frozen day water goal is untouched; the extra is tracked
// separately.
func (s *Store) IncreaseWaterGoal(ctx context.Context, userID string, day time.Time, extraML int) error {
	if extraML < 0 {
		return &ValidationError{Field: "extra water", Value: float64(extraML), Min: 0}
	}
	return s.mutate(ctx, userID, day, func(st *DailyStats) {
		st.AdditionalWaterML += extraML
	})
}

func (s *Store) mutate(ctx context.Context, userID string, day time.Time, fn func(*DailyStats)) error {
	if _, err := s.EnsureDay(ctx, userID, day); err != nil {
		return err
	}
	key := day.Format(DayKeyFormat)

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.days[userID][key]
	fn(st)
	s.persistDay(userID, key, st)
	return nil
}

// Snapshot returns the day's ledger without creating it.
func (s *Store) Snapshot(userID string, day time.Time) (DailyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; !ok {
		return DailyStats{}, ErrUnknownUser
	}
	st, ok := s.days[userID][day.Format(DayKeyFormat)]
	if !ok {
		return DailyStats{}, ErrUnknownDay
	}
	return *st, nil
}

// Series returns every recorded day for the user paired with the
// requested metric. Days come back in the order EnsureDay first touched
// them, which is not necessarily chronological (the admin backfill
// creates past days after today already exists); the reference behaves
// the same way and charts plot it literally.
func (s *Store) Series(userID string, metric Metric) ([]string, []float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; !ok {
		return nil, nil, ErrUnknownUser
	}

	order := s.dayOrder[userID]
	days := make([]string, 0, len(order))
	values := make([]float64, 0, len(order))
	for _, key := range order {
		st := s.days[userID][key]
		days = append(days, key)
		switch metric {
		case MetricCalories:
			values = append(values, st.LoggedCaloriesKcal)
		default:
			values = append(values, st.LoggedWaterML)
		}
	}
	return days, values, nil
}

// ActiveDays reports the number of distinct days with a ledger record,
// including days with zero logged events.
func (s *Store) ActiveDays(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dayOrder[userID])
}

// Journal writes are best-effort: a persistence failure is logged and
// the in-memory ledger stays authoritative.

func (s *Store) persistProfile(p *Profile) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SaveProfile(*p); err != nil {
		log.Printf("[stats] journal profile %s: %v", p.UserID, err)
	}
}

func (s *Store) persistDay(userID, key string, st *DailyStats) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SaveDay(userID, key, *st); err != nil {
		log.Printf("[stats] journal day %s/%s: %v", userID, key, err)
	}
}
