package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Journal is a write-through sqlite copy of the store, replayed at
// startup. It mirrors the store's semantics: profiles insert-only, day
// rows upserted with whole-row state (counters only ever grow in the
// store, so an upsert never shrinks a value). Rowid order preserves the
// ledger's first-touch day order across restarts.
type Journal struct {
	db *sql.DB
	mu sync.Mutex
}

func OpenJournal(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	j := &Journal{db: db}
	if err := j.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := j.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := j.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func (j *Journal) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL DEFAULT '',
			weight_kg REAL NOT NULL,
			height_cm REAL NOT NULL,
			age_years REAL NOT NULL,
			activity_min REAL NOT NULL,
			city TEXT NOT NULL,
			base_water_goal_ml INTEGER NOT NULL,
			base_calorie_goal_kcal REAL NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS daily_stats (
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			logged_water_ml REAL NOT NULL DEFAULT 0,
			additional_water_ml INTEGER NOT NULL DEFAULT 0,
			logged_calories_kcal REAL NOT NULL DEFAULT 0,
			burned_calories_kcal REAL NOT NULL DEFAULT 0,
			water_goal_ml INTEGER NOT NULL,
			calorie_goal_kcal REAL NOT NULL,
			PRIMARY KEY (user_id, day)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) SaveProfile(p Profile) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.Exec(
		`INSERT OR IGNORE INTO profiles
		(user_id, chat_id, weight_kg, height_cm, age_years, activity_min, city,
		 base_water_goal_ml, base_calorie_goal_kcal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.ChatID, p.WeightKg, p.HeightCm, p.AgeYears, p.ActivityMin,
		p.City, p.BaseWaterGoalML, p.BaseCalorieGoalKcal,
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (j *Journal) SaveDay(userID, day string, st DailyStats) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.Exec(
		`INSERT INTO daily_stats
		(user_id, day, logged_water_ml, additional_water_ml,
		 logged_calories_kcal, burned_calories_kcal, water_goal_ml, calorie_goal_kcal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			logged_water_ml = excluded.logged_water_ml,
			additional_water_ml = excluded.additional_water_ml,
			logged_calories_kcal = excluded.logged_calories_kcal,
			burned_calories_kcal = excluded.burned_calories_kcal`,
		userID, day, st.LoggedWaterML, st.AdditionalWaterML,
		st.LoggedCaloriesKcal, st.BurnedCaloriesKcal, st.WaterGoalML, st.CalorieGoalKcal,
	)
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}
	return nil
}

// DayRecord is one replayed ledger row.
type DayRecord struct {
	UserID string
	Day    string
	Stats  DailyStats
}

// LoadAll returns every profile and every day row, days in insertion
// (rowid) order.
func (j *Journal) LoadAll() ([]Profile, []DayRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(
		`SELECT user_id, chat_id, weight_kg, height_cm, age_years, activity_min,
		        city, base_water_goal_ml, base_calorie_goal_kcal, created_at
		 FROM profiles`)
	if err != nil {
		return nil, nil, fmt.Errorf("load profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		var created string
		if err := rows.Scan(&p.UserID, &p.ChatID, &p.WeightKg, &p.HeightCm,
			&p.AgeYears, &p.ActivityMin, &p.City,
			&p.BaseWaterGoalML, &p.BaseCalorieGoalKcal, &created); err != nil {
			return nil, nil, fmt.Errorf("scan profile: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			p.CreatedAt = ts
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load profiles: %w", err)
	}

	dayRows, err := j.db.Query(
		`SELECT user_id, day, logged_water_ml, additional_water_ml,
		        logged_calories_kcal, burned_calories_kcal, water_goal_ml, calorie_goal_kcal
		 FROM daily_stats ORDER BY rowid`)
	if err != nil {
		return nil, nil, fmt.Errorf("load days: %w", err)
	}
	defer dayRows.Close()

	var days []DayRecord
	for dayRows.Next() {
		var rec DayRecord
		if err := dayRows.Scan(&rec.UserID, &rec.Day,
			&rec.Stats.LoggedWaterML, &rec.Stats.AdditionalWaterML,
			&rec.Stats.LoggedCaloriesKcal, &rec.Stats.BurnedCaloriesKcal,
			&rec.Stats.WaterGoalML, &rec.Stats.CalorieGoalKcal); err != nil {
			return nil, nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, rec)
	}
	if err := dayRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load days: %w", err)
	}

	return profiles, days, nil
}
