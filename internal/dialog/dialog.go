// Package dialog drives the conversational surface: slash-command
// dispatch, the profile-setup state machine, the food-amount
// sub-dialogue, and the gating that requires a profile before any
// logging command.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/aquabotdev/aquabot/internal/chart"
	"github.com/aquabotdev/aquabot/internal/goal"
	"github.com/aquabotdev/aquabot/internal/lookup"
	"github.com/aquabotdev/aquabot/internal/stats"
)

// CityChecker validates a city name against the weather provider.
type CityChecker interface {
	CityKnown(ctx context.Context, city string) bool
}

// FoodSource looks up a product's composition.
type FoodSource interface {
	Food(ctx context.Context, name string) (lookup.FoodInfo, bool)
}

// ExerciseSource looks up an activity's hourly burn rate.
type ExerciseSource interface {
	Exercise(ctx context.Context, name string) (lookup.ExerciseInfo, bool)
}

// Reply is one outbound message produced by the sequencer. Either Text
// or Photo is set.
type Reply struct {
	Text      string
	Photo     []byte
	PhotoName string
	Caption   string
}

func text(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}

const backfillDays = 7

// Options configures a Sequencer.
type Options struct {
	// AdminID enables admin-only commands for that sender.
	AdminID string
	// Now overrides the clock (for testing).
	Now func() time.Time
	// RandInt overrides the backfill value source (for testing).
	RandInt func(lo, hi int) int
}

// Sequencer owns the per-conversation dialogue sessions and translates
// inbound text into store mutations and replies.
type Sequencer struct {
	store    *stats.Store
	cities   CityChecker
	food     FoodSource
	exercise ExerciseSource
	adminID  string
	now      func() time.Time
	randInt  func(lo, hi int) int

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSequencer(store *stats.Store, cities CityChecker, food FoodSource, exercise ExerciseSource, opts Options) *Sequencer {
	s := &Sequencer{
		store:    store,
		cities:   cities,
		food:     food,
		exercise: exercise,
		adminID:  opts.AdminID,
		now:      opts.Now,
		randInt:  opts.RandInt,
		sessions: make(map[string]*session),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.randInt == nil {
		s.randInt = func(lo, hi int) int { return lo + rand.Intn(hi-lo+1) }
	}
	return s
}

func (s *Sequencer) session(chatID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *Sequencer) today() time.Time {
	return s.now()
}

// Handle processes one inbound message and returns the replies to send,
// in order. A nil result means no reply (unrecognized plain text, or a
// silently ignored admin command).
func (s *Sequencer) Handle(ctx context.Context, userID, chatID, username, content string) []Reply {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	if strings.HasPrefix(content, "/") {
		return s.handleCommand(ctx, userID, chatID, username, content)
	}
	return s.handleState(ctx, userID, chatID, content)
}

func (s *Sequencer) handleCommand(ctx context.Context, userID, chatID, username, content string) []Reply {
	fields := strings.Fields(content)
	cmd := strings.TrimPrefix(fields[0], "/")
	// Telegram group mentions look like /cmd@botname.
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	log.Printf("[dialog] command /%s from %s (%s)", cmd, userID, username)

	// Gating: everything except start/help/set_profile needs a profile.
	switch cmd {
	case "start", "help", "set_profile":
	default:
		if !s.store.ProfileExists(userID) {
			return []Reply{text("Please set up your profile first with /set_profile.")}
		}
	}

	switch cmd {
	case "start":
		return []Reply{text("Hi! I can help you track your daily water and calorie norms. Use /help for the command list.")}
	case "help":
		return []Reply{text("%s", s.helpText(userID))}
	case "set_profile":
		return s.startProfileSetup(userID, chatID)
	case "log_water":
		return s.logWater(ctx, userID, args)
	case "log_food":
		return s.logFoodName(ctx, userID, chatID, args)
	case "log_workout":
		return s.logWorkout(ctx, userID, args)
	case "check_progress":
		return s.checkProgress(ctx, userID)
	case "show_water_chart":
		return s.showChart(userID, stats.MetricWater)
	case "show_calories_chart":
		return s.showChart(userID, stats.MetricCalories)
	case "fake":
		return s.backfill(ctx, userID)
	default:
		return nil
	}
}

func (s *Sequencer) helpText(userID string) string {
	var sb strings.Builder
	sb.WriteString("Available commands:\n\n")
	sb.WriteString("/start — Start working with the bot\n")
	sb.WriteString("/help — List available commands\n")
	sb.WriteString("/set_profile — Set up your profile (other commands will not work without it)\n")
	sb.WriteString("/log_water <volume> — Log drunk water (in ml)\n")
	sb.WriteString("/log_food <product> — Log a product and how much of it you ate\n")
	sb.WriteString("/log_workout <activity> <minutes> — Log a workout\n")
	sb.WriteString("/check_progress — Check today's progress\n")
	sb.WriteString("/show_water_chart — Show the water intake chart\n")
	sb.WriteString("/show_calories_chart — Show the calorie intake chart")
	if s.adminID != "" && userID == s.adminID {
		sb.WriteString("\n/fake — (Admin) Generate test data for the charts")
	}
	return sb.String()
}

func (s *Sequencer) startProfileSetup(userID, chatID string) []Reply {
	if s.store.ProfileExists(userID) {
		return []Reply{text("You already have a profile. Profile editing is not available yet.")}
	}
	sess := s.session(chatID)
	*sess = session{state: StateAwaitingWeight}
	return []Reply{text("Enter your weight (in kg):")}
}

// handleState advances the per-chat state machine on plain text. Invalid
// input re-prompts on the same state without advancing.
func (s *Sequencer) handleState(ctx context.Context, userID, chatID, content string) []Reply {
	sess := s.session(chatID)

	switch sess.state {
	case StateAwaitingWeight:
		v, ok := parseInRange(content, 20, 300)
		if !ok {
			return []Reply{text("Please enter a valid value.")}
		}
		sess.weight = v
		sess.state = StateAwaitingHeight
		return []Reply{text("Enter your height (in cm):")}

	case StateAwaitingHeight:
		v, ok := parseInRange(content, 50, 250)
		if !ok {
			return []Reply{text("Please enter a valid value.")}
		}
		sess.height = v
		sess.state = StateAwaitingAge
		return []Reply{text("Enter your age:")}

	case StateAwaitingAge:
		v, ok := parseInRange(content, 0, 150)
		if !ok {
			return []Reply{text("Please enter a valid value.")}
		}
		sess.age = v
		sess.state = StateAwaitingActivity
		return []Reply{text("How many minutes of activity do you get per day?")}

	case StateAwaitingActivity:
		v, ok := parseInRange(content, 0, 86400)
		if !ok {
			return []Reply{text("Please enter a valid value.")}
		}
		sess.activity = v
		sess.state = StateAwaitingCity
		return []Reply{text("Which city are you in?")}

	case StateAwaitingCity:
		return s.finishProfileSetup(ctx, userID, chatID, sess, content)

	case StateAwaitingFoodAmount:
		return s.logFoodAmount(ctx, userID, sess, content)

	default:
		return nil
	}
}

func (s *Sequencer) finishProfileSetup(ctx context.Context, userID, chatID string, sess *session, content string) []Reply {
	city := normalizeName(content)
	if !isAlpha(city) || (s.cities != nil && !s.cities.CityKnown(ctx, city)) {
		return []Reply{text("Please enter a valid city name.")}
	}

	_, err := s.store.CreateProfile(userID, chatID, sess.weight, sess.height, sess.age, sess.activity, city)
	if err != nil {
		*sess = session{}
		if errors.Is(err, stats.ErrDuplicateProfile) {
			return []Reply{text("You already have a profile. Profile editing is not available yet.")}
		}
		log.Printf("[dialog] create profile %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try /set_profile again.")}
	}

	// Materialize today's record so goals are frozen right away.
	if _, err := s.store.EnsureDay(ctx, userID, s.today()); err != nil {
		log.Printf("[dialog] ensure day for %s: %v", userID, err)
	}

	*sess = session{}
	return []Reply{text("Profile set up! Use /check_progress to see your progress.")}
}

func (s *Sequencer) logWater(ctx context.Context, userID string, args []string) []Reply {
	if len(args) == 0 {
		return []Reply{text("Please provide arguments, e.g. \"/log_water 100\".")}
	}
	if len(args) != 1 {
		return []Reply{text("Please provide a single argument.")}
	}
	volume, ok := parseNumeric(args[0])
	if !ok || volume <= 0 {
		return []Reply{text("Please enter a valid numeric value.")}
	}

	day := s.today()
	if err := s.store.AddWater(ctx, userID, day, volume); err != nil {
		log.Printf("[dialog] add water for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}

	st, err := s.store.Snapshot(userID, day)
	if err != nil {
		log.Printf("[dialog] snapshot for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}
	return []Reply{text("Drunk: %s ml of %d ml.", fmtNum(st.LoggedWaterML), st.WaterGoalML)}
}

func (s *Sequencer) logFoodName(ctx context.Context, userID, chatID string, args []string) []Reply {
	if len(args) == 0 {
		return []Reply{text("Please provide a product name, e.g. \"/log_food banana\".")}
	}
	if len(args) != 1 {
		return []Reply{text("Please provide a single argument (/log_food <product>).")}
	}
	product := normalizeName(args[0])
	if !isAlpha(product) {
		return []Reply{text("Please enter a valid product name.")}
	}

	replies := []Reply{text("Please wait...")}

	info, ok := s.food.Food(ctx, product)
	if !ok {
		return append(replies, text("Product not found, try another name."))
	}

	sess := s.session(chatID)
	sess.pendingFood = info
	sess.state = StateAwaitingFoodAmount
	return append(replies, text("%s — %s kcal per 100 g. How many grams did you eat?", product, fmtNum(info.CaloriesPer100g)))
}

func (s *Sequencer) logFoodAmount(ctx context.Context, userID string, sess *session, content string) []Reply {
	amount, ok := parseInRange(content, 1, 5000)
	if !ok {
		return []Reply{text("Please enter a valid value.")}
	}

	calories := goal.CaloriesConsumed(sess.pendingFood.CaloriesPer100g, amount)
	if err := s.store.AddCalories(ctx, userID, s.today(), calories); err != nil {
		log.Printf("[dialog] add calories for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}

	*sess = session{}
	return []Reply{text("Recorded: %s kcal.", fmtNum(calories))}
}

func (s *Sequencer) logWorkout(ctx context.Context, userID string, args []string) []Reply {
	if len(args) == 0 {
		return []Reply{text("Please provide arguments, e.g. \"/log_workout running 30\".")}
	}
	if len(args) != 2 {
		return []Reply{text("Please provide two arguments (/log_workout <activity> <minutes>).")}
	}

	activity := normalizeName(args[0])
	if !isAlpha(activity) {
		return []Reply{text("Please enter a valid activity name.")}
	}
	duration, ok := parseInRange(args[1], 1, 86400)
	if !ok {
		return []Reply{text("Please enter a valid workout duration in minutes.")}
	}

	info, ok := s.exercise.Exercise(ctx, activity)
	if !ok {
		return []Reply{text("Activity not found, try another name.")}
	}

	day := s.today()
	calories := goal.CaloriesBurned(info.CaloriesPerHour, duration)
	if err := s.store.BurnCalories(ctx, userID, day, calories); err != nil {
		log.Printf("[dialog] burn calories for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}

	msg := fmt.Sprintf("%s for %s minutes — %s kcal.", activity, fmtNum(duration), fmtNum(calories))

	extra := goal.ExtraWaterForWorkout(duration)
	if extra > 0 {
		if err := s.store.IncreaseWaterGoal(ctx, userID, day, extra); err != nil {
			log.Printf("[dialog] increase water goal for %s: %v", userID, err)
		} else {
			msg += fmt.Sprintf(" Additionally: drink %d ml of water.", extra)
		}
	}
	return []Reply{{Text: msg}}
}

func (s *Sequencer) checkProgress(ctx context.Context, userID string) []Reply {
	day := s.today()
	if _, err := s.store.EnsureDay(ctx, userID, day); err != nil {
		log.Printf("[dialog] ensure day for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}
	st, err := s.store.Snapshot(userID, day)
	if err != nil {
		log.Printf("[dialog] snapshot for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}

	waterTarget := float64(st.WaterGoalML + st.AdditionalWaterML)
	return []Reply{text(
		"📊 Progress:\n\n"+
			"Water:\n"+
			"- Drunk: %s ml of %s ml.\n"+
			"- Remaining: %s ml.\n\n"+
			"Calories:\n"+
			"- Consumed: %s kcal of %s kcal.\n"+
			"- Burned: %s kcal.\n"+
			"- Balance: %s kcal.",
		fmtNum(st.LoggedWaterML), fmtNum(waterTarget),
		fmtNum(waterTarget-st.LoggedWaterML),
		fmtNum(st.LoggedCaloriesKcal), fmtNum(st.CalorieGoalKcal),
		fmtNum(st.BurnedCaloriesKcal),
		fmtNum(st.LoggedCaloriesKcal-st.BurnedCaloriesKcal),
	)}
}

func (s *Sequencer) showChart(userID string, metric stats.Metric) []Reply {
	if s.store.ActiveDays(userID) < 2 {
		return []Reply{text("This feature is not available yet: you need at least 2 active days.")}
	}

	days, values, err := s.store.Series(userID, metric)
	if err != nil {
		log.Printf("[dialog] series for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}
	profile, err := s.store.Profile(userID)
	if err != nil {
		log.Printf("[dialog] profile for %s: %v", userID, err)
		return []Reply{text("Something went wrong, please try again.")}
	}

	var png []byte
	var name, caption string
	switch metric {
	case stats.MetricCalories:
		png, err = chart.Line("Calorie intake", "Daily intake (kcal)", "Daily norm (kcal)",
			days, values, profile.BaseCalorieGoalKcal)
		name, caption = "calories_chart.png", "Calorie intake chart"
	default:
		png, err = chart.Line("Water intake", "Daily intake (ml)", "Daily norm (ml)",
			days, values, float64(profile.BaseWaterGoalML))
		name, caption = "water_chart.png", "Water intake chart"
	}
	if err != nil {
		log.Printf("[dialog] render chart for %s: %v", userID, err)
		return []Reply{text("Could not render the chart, please try again.")}
	}
	return []Reply{{Photo: png, PhotoName: name, Caption: caption}}
}

// backfill creates synthetic past days for chart testing. Non-admin
// senders are silently ignored.
func (s *Sequencer) backfill(ctx context.Context, userID string) []Reply {
	if s.adminID == "" || userID != s.adminID {
		return nil
	}

	today := s.today()
	for i := 0; i < backfillDays; i++ {
		day := today.AddDate(0, 0, -i)
		if _, err := s.store.EnsureDay(ctx, userID, day); err != nil {
			log.Printf("[dialog] backfill ensure day: %v", err)
			return []Reply{text("Something went wrong, please try again.")}
		}
		if err := s.store.AddCalories(ctx, userID, day, float64(s.randInt(1000, 5000))); err != nil {
			log.Printf("[dialog] backfill calories: %v", err)
		}
		if err := s.store.AddWater(ctx, userID, day, float64(s.randInt(1000, 5000))); err != nil {
			log.Printf("[dialog] backfill water: %v", err)
		}
	}
	return []Reply{text("Test data generated.")}
}
