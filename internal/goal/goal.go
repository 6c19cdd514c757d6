// Package goal computes daily water and calorie targets from body
// metrics and day-specific context. All functions are pure; weather is
// fetched by the caller and passed in as data.
package goal

const (
	// HeatThresholdC is the temperature above which the day water goal
	// gets a fixed bonus.
	HeatThresholdC = 25.0
	// HeatWaterBonusML is that bonus.
	HeatWaterBonusML = 500

	// ActivityThresholdMin is the configured daily activity above which
	// the day calorie goal gets a fixed bonus.
	ActivityThresholdMin = 60.0
	// ActivityCalorieBonus is that bonus.
	ActivityCalorieBonus = 300.0
)

// BaseWater returns the baseline daily water goal in ml:
// 30 ml per kg of body weight plus 10 ml per minute of daily activity.
func BaseWater(weightKg, activityMin float64) int {
	return int(weightKg*30 + activityMin*10)
}

// BaseCalories returns the baseline daily calorie goal (Mifflin-St Jeor
// without the sex/offset terms): 10*weight + 6.25*height - 5*age.
func BaseCalories(weightKg, heightCm, ageYears float64) float64 {
	return 10*weightKg + 6.25*heightCm - 5*ageYears
}

// DayWater returns the water goal for a single day. A temperature
// reading strictly above HeatThresholdC adds HeatWaterBonusML. A missing
// reading (hasTemp false) means no bonus, never an error.
func DayWater(baseML int, tempC float64, hasTemp bool) int {
	if hasTemp && tempC > HeatThresholdC {
		return baseML + HeatWaterBonusML
	}
	return baseML
}

// DayCalories returns the calorie goal for a single day. Activity
// strictly above ActivityThresholdMin adds ActivityCalorieBonus.
func DayCalories(baseKcal, activityMin float64) float64 {
	if activityMin > ActivityThresholdMin {
		return baseKcal + ActivityCalorieBonus
	}
	return baseKcal
}

// ExtraWaterForWorkout returns the additional hydration requirement
// earned from an exercise session: 200 ml per full 30 minutes.
func ExtraWaterForWorkout(durationMin float64) int {
	return int(durationMin/30) * 200
}

// CaloriesBurned converts an hourly burn rate into the calories burned
// over a session.
func CaloriesBurned(caloriesPerHour, durationMin float64) float64 {
	return caloriesPerHour * durationMin / 60
}

// CaloriesConsumed converts a per-100g value into the calories in a
// portion.
func CaloriesConsumed(caloriesPer100g, amountGrams float64) float64 {
	return caloriesPer100g * amountGrams / 100
}
