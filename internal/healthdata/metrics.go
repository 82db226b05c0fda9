package healthdata

// MetricName names a numeric field of one of the record kinds.
type MetricName string

// The metrics accepted by the metric history and metric range tools.
const (
	MetricSteps          MetricName = "steps"
	MetricActiveMinutes  MetricName = "active_minutes"
	MetricCaloriesBurned MetricName = "calories_burned"
	MetricDistanceKm     MetricName = "distance_km"
	MetricTotalHours     MetricName = "total_hours"
	MetricEfficiency     MetricName = "efficiency"
	MetricRestingHR      MetricName = "resting_hr"
	MetricHRV            MetricName = "hrv"
	MetricRecoveryScore  MetricName = "recovery_score"
	MetricWaterML        MetricName = "water_ml"
	MetricCalories       MetricName = "calories"
	MetricProteinG       MetricName = "protein_g"
)

// QueryableMetrics is the closed set of metric names exposed to clients.
var QueryableMetrics = []MetricName{
	MetricSteps,
	MetricActiveMinutes,
	MetricCaloriesBurned,
	MetricDistanceKm,
	MetricTotalHours,
	MetricEfficiency,
	MetricRestingHR,
	MetricHRV,
	MetricRecoveryScore,
	MetricWaterML,
	MetricCalories,
	MetricProteinG,
}

// Accessor tables: one typed extraction function per numeric field.
// String fields (workout_type, sleep_quality) are not metrics.

var activityMetrics = map[MetricName]func(DailyActivity) float64{
	MetricSteps:          func(r DailyActivity) float64 { return float64(r.Steps) },
	MetricActiveMinutes:  func(r DailyActivity) float64 { return float64(r.ActiveMinutes) },
	MetricCaloriesBurned: func(r DailyActivity) float64 { return r.CaloriesBurned },
	MetricDistanceKm:     func(r DailyActivity) float64 { return r.DistanceKm },
	"workout_duration":   func(r DailyActivity) float64 { return float64(r.WorkoutDuration) },
	"intensity_score":    func(r DailyActivity) float64 { return r.IntensityScore },
}

var sleepMetrics = map[MetricName]func(SleepRecord) float64{
	MetricTotalHours:    func(r SleepRecord) float64 { return r.TotalHours },
	"deep_sleep_hours":  func(r SleepRecord) float64 { return r.DeepSleepHours },
	"rem_sleep_hours":   func(r SleepRecord) float64 { return r.RemSleepHours },
	"light_sleep_hours": func(r SleepRecord) float64 { return r.LightSleepHours },
	MetricEfficiency:    func(r SleepRecord) float64 { return r.Efficiency },
	"time_to_sleep":     func(r SleepRecord) float64 { return float64(r.TimeToSleep) },
	"awakenings":        func(r SleepRecord) float64 { return float64(r.Awakenings) },
}

var heartMetrics = map[MetricName]func(HeartRecord) float64{
	MetricRestingHR:     func(r HeartRecord) float64 { return float64(r.RestingHR) },
	MetricHRV:           func(r HeartRecord) float64 { return r.HRV },
	MetricRecoveryScore: func(r HeartRecord) float64 { return r.RecoveryScore },
	"stress_level":      func(r HeartRecord) float64 { return r.StressLevel },
	"body_battery":      func(r HeartRecord) float64 { return r.BodyBattery },
	"readiness_score":   func(r HeartRecord) float64 { return r.ReadinessScore },
	"vo2_max":           func(r HeartRecord) float64 { return r.VO2Max },
}

var nutritionMetrics = map[MetricName]func(NutritionRecord) float64{
	MetricWaterML:  func(r NutritionRecord) float64 { return r.WaterML },
	MetricCalories: func(r NutritionRecord) float64 { return r.Calories },
	MetricProteinG: func(r NutritionRecord) float64 { return r.ProteinG },
	"carbs_g":      func(r NutritionRecord) float64 { return r.CarbsG },
	"fats_g":       func(r NutritionRecord) float64 { return r.FatsG },
	"fiber_g":      func(r NutritionRecord) float64 { return r.FiberG },
	"sugar_g":      func(r NutritionRecord) float64 { return r.SugarG },
	"alcohol_g":    func(r NutritionRecord) float64 { return r.AlcoholG },
}

func lookup[T any](table map[MetricName]func(T) float64, rec T, name MetricName) (float64, bool) {
	fn, ok := table[name]
	if !ok {
		return 0, false
	}
	return fn(rec), true
}

// KindsWithMetric reports which record kinds define the given metric.
func KindsWithMetric(name MetricName) []Kind {
	var kinds []Kind
	if _, ok := activityMetrics[name]; ok {
		kinds = append(kinds, KindActivity)
	}
	if _, ok := sleepMetrics[name]; ok {
		kinds = append(kinds, KindSleep)
	}
	if _, ok := heartMetrics[name]; ok {
		kinds = append(kinds, KindHeart)
	}
	if _, ok := nutritionMetrics[name]; ok {
		kinds = append(kinds, KindNutrition)
	}
	return kinds
}
