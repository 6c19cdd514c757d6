package goal

import "testing"

func TestBaseGoals(t *testing.T) {
	// weight=70, height=175, age=30, activity=45
	if got := BaseWater(70, 45); got != 2550 {
		t.Errorf("BaseWater = %d, want 2550", got)
	}
	if got := BaseCalories(70, 175, 30); got != 1643.75 {
		t.Errorf("BaseCalories = %v, want 1643.75", got)
	}
}

func TestDayWater(t *testing.T) {
	tests := []struct {
		name    string
		tempC   float64
		hasTemp bool
		want    int
	}{
		{"no reading", 0, false, 2550},
		{"at threshold", 25.0, true, 2550},
		{"just above threshold", 25.1, true, 3050},
		{"hot", 34, true, 3050},
		{"cold", -10, true, 2550},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayWater(2550, tt.tempC, tt.hasTemp); got != tt.want {
				t.Errorf("DayWater = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDayCalories(t *testing.T) {
	if got := DayCalories(1643.75, 45); got != 1643.75 {
		t.Errorf("activity 45 should add no bonus, got %v", got)
	}
	if got := DayCalories(1643.75, 60); got != 1643.75 {
		t.Errorf("activity 60 is not strictly above threshold, got %v", got)
	}
	if got := DayCalories(1643.75, 61); got != 1943.75 {
		t.Errorf("activity 61 should add 300, got %v", got)
	}
}

func TestExtraWaterForWorkout(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{29, 0},
		{30, 200},
		{59, 200},
		{65, 400},
		{90, 600},
	}
	for _, tt := range tests {
		if got := ExtraWaterForWorkout(tt.minutes); got != tt.want {
			t.Errorf("ExtraWaterForWorkout(%v) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestCaloriesBurned(t *testing.T) {
	if got := CaloriesBurned(600, 90); got != 900 {
		t.Errorf("CaloriesBurned(600, 90) = %v, want 900", got)
	}
}

func TestCaloriesConsumed(t *testing.T) {
	if got := CaloriesConsumed(89, 150); got != 133.5 {
		t.Errorf("CaloriesConsumed(89, 150) = %v, want 133.5", got)
	}
}
