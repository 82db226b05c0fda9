// Package healthdata holds the in-memory health dataset and the query
// engine that answers every retrieval tool.
//
// A Dataset is built once by the spreadsheet parser and is never mutated
// afterwards. All date fields are canonical YYYY-MM-DD strings, so plain
// string comparison is chronological comparison.
package healthdata

// Kind identifies one of the four time-series record kinds.
type Kind string

const (
	KindActivity  Kind = "activity"
	KindSleep     Kind = "sleep"
	KindHeart     Kind = "heart"
	KindNutrition Kind = "nutrition"
)

// Kinds lists the record kinds in pooling order. Metric extraction
// relies on this order: later kinds override earlier ones.
var Kinds = []Kind{KindActivity, KindSleep, KindHeart, KindNutrition}

// Record is the closed union of the four time-series record kinds.
// The unexported method keeps other packages from adding members.
type Record interface {
	RecordDate() string
	Kind() Kind
	// Metric returns the numeric field named by metric, or false when
	// this record kind has no such field.
	Metric(name MetricName) (float64, bool)

	sealed()
}

// UserProfile is the single profile row of a dataset.
type UserProfile struct {
	UserID        string  `json:"user_id"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	FitnessGoal   string  `json:"fitness_goal"`
	TargetSteps   int     `json:"target_steps"`
	TargetSleep   float64 `json:"target_sleep"`
	TargetWaterML float64 `json:"target_water_ml"`
}

// DailyActivity is one day of movement and workout data.
type DailyActivity struct {
	Date            string  `json:"date"`
	Steps           int     `json:"steps"`
	ActiveMinutes   int     `json:"active_minutes"`
	CaloriesBurned  float64 `json:"calories_burned"`
	DistanceKm      float64 `json:"distance_km"`
	WorkoutType     string  `json:"workout_type"`
	WorkoutDuration int     `json:"workout_duration"`
	IntensityScore  float64 `json:"intensity_score"`
}

// SleepRecord is one night of sleep data, keyed by the wake-up date.
type SleepRecord struct {
	Date            string  `json:"date"`
	TotalHours      float64 `json:"total_hours"`
	DeepSleepHours  float64 `json:"deep_sleep_hours"`
	RemSleepHours   float64 `json:"rem_sleep_hours"`
	LightSleepHours float64 `json:"light_sleep_hours"`
	Efficiency      float64 `json:"efficiency"`
	TimeToSleep     int     `json:"time_to_sleep"`
	Awakenings      int     `json:"awakenings"`
	SleepQuality    string  `json:"sleep_quality"`
}

// HeartRecord is one day of cardiovascular recovery data.
type HeartRecord struct {
	Date           string  `json:"date"`
	RestingHR      int     `json:"resting_hr"`
	HRV            float64 `json:"hrv"`
	RecoveryScore  float64 `json:"recovery_score"`
	StressLevel    float64 `json:"stress_level"`
	BodyBattery    float64 `json:"body_battery"`
	ReadinessScore float64 `json:"readiness_score"`
	VO2Max         float64 `json:"vo2_max"`
}

// NutritionRecord is one day of intake data.
type NutritionRecord struct {
	Date     string  `json:"date"`
	WaterML  float64 `json:"water_ml"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`
	AlcoholG float64 `json:"alcohol_g"`
}

func (r DailyActivity) RecordDate() string   { return r.Date }
func (r SleepRecord) RecordDate() string     { return r.Date }
func (r HeartRecord) RecordDate() string     { return r.Date }
func (r NutritionRecord) RecordDate() string { return r.Date }

func (DailyActivity) Kind() Kind   { return KindActivity }
func (SleepRecord) Kind() Kind     { return KindSleep }
func (HeartRecord) Kind() Kind     { return KindHeart }
func (NutritionRecord) Kind() Kind { return KindNutrition }

func (r DailyActivity) Metric(name MetricName) (float64, bool)   { return lookup(activityMetrics, r, name) }
func (r SleepRecord) Metric(name MetricName) (float64, bool)     { return lookup(sleepMetrics, r, name) }
func (r HeartRecord) Metric(name MetricName) (float64, bool)     { return lookup(heartMetrics, r, name) }
func (r NutritionRecord) Metric(name MetricName) (float64, bool) { return lookup(nutritionMetrics, r, name) }

func (DailyActivity) sealed()   {}
func (SleepRecord) sealed()     {}
func (HeartRecord) sealed()     {}
func (NutritionRecord) sealed() {}

// Dataset is the complete snapshot loaded from the health workbook.
// Each sequence is ordered by non-decreasing date as produced by the
// parser; the query engine never re-sorts.
type Dataset struct {
	Profile   UserProfile
	Activity  []DailyActivity
	Sleep     []SleepRecord
	Heart     []HeartRecord
	Nutrition []NutritionRecord
}

// Counts reports the number of records per kind.
type Counts struct {
	Activity  int `json:"activity"`
	Sleep     int `json:"sleep"`
	Heart     int `json:"heart"`
	Nutrition int `json:"nutrition"`
}

// Counts returns the per-kind record counts of the dataset.
func (d *Dataset) Counts() Counts {
	return Counts{
		Activity:  len(d.Activity),
		Sleep:     len(d.Sleep),
		Heart:     len(d.Heart),
		Nutrition: len(d.Nutrition),
	}
}

// pooled returns every time-series record in pooling order: all
// activity, then sleep, then heart, then nutrition, each in its
// original sequence order.
func (d *Dataset) pooled() []Record {
	out := make([]Record, 0, len(d.Activity)+len(d.Sleep)+len(d.Heart)+len(d.Nutrition))
	for _, r := range d.Activity {
		out = append(out, r)
	}
	for _, r := range d.Sleep {
		out = append(out, r)
	}
	for _, r := range d.Heart {
		out = append(out, r)
	}
	for _, r := range d.Nutrition {
		out = append(out, r)
	}
	return out
}
