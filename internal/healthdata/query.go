package healthdata

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date format of every record.
const DateLayout = "2006-01-02"

// DefaultHistoryDays is the metric history window when none is given.
const DefaultHistoryDays = 30

// DailyMetrics holds the records of each kind for one date. Kinds with
// no record for that date are nil.
type DailyMetrics struct {
	Activity  *DailyActivity   `json:"activity,omitempty"`
	Sleep     *SleepRecord     `json:"sleep,omitempty"`
	Heart     *HeartRecord     `json:"heart,omitempty"`
	Nutrition *NutritionRecord `json:"nutrition,omitempty"`
}

// Bundle holds a selection from all four time series.
type Bundle struct {
	Activity  []DailyActivity   `json:"activity"`
	Sleep     []SleepRecord     `json:"sleep"`
	Heart     []HeartRecord     `json:"heart"`
	Nutrition []NutritionRecord `json:"nutrition"`
}

func (b Bundle) anyEmpty() bool {
	return len(b.Activity) == 0 || len(b.Sleep) == 0 || len(b.Heart) == 0 || len(b.Nutrition) == 0
}

// MetricPoint is one dated value of a metric.
type MetricPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Season is a year-independent bucket of calendar months.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

// Seasons lists the accepted season names.
var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

var seasonMonths = map[Season][]int{
	SeasonWinter: {12, 1, 2},
	SeasonSpring: {3, 4, 5},
	SeasonSummer: {6, 7, 8},
	SeasonFall:   {9, 10, 11},
}

// SeasonMonths returns the month numbers of a season. Unknown seasons
// map to no months.
func SeasonMonths(s Season) []int {
	return seasonMonths[s]
}

// DailyMetrics returns the record of each kind dated exactly date.
// It fails only when no kind has a record for that date.
func (d *Dataset) DailyMetrics(date string) (DailyMetrics, error) {
	out := DailyMetrics{
		Activity:  findByDate(d.Activity, date),
		Sleep:     findByDate(d.Sleep, date),
		Heart:     findByDate(d.Heart, date),
		Nutrition: findByDate(d.Nutrition, date),
	}
	if out.Activity == nil && out.Sleep == nil && out.Heart == nil && out.Nutrition == nil {
		return DailyMetrics{}, notFound("no data found for date: %s", date)
	}
	return out, nil
}

// DateRange returns every record with startDate <= date <= endDate.
// It fails when any one of the four kinds ends up empty.
func (d *Dataset) DateRange(startDate, endDate string) (Bundle, error) {
	out := Bundle{
		Activity:  filterRange(d.Activity, startDate, endDate),
		Sleep:     filterRange(d.Sleep, startDate, endDate),
		Heart:     filterRange(d.Heart, startDate, endDate),
		Nutrition: filterRange(d.Nutrition, startDate, endDate),
	}
	if out.anyEmpty() {
		return Bundle{}, notFound("no data found for date range: %s to %s", startDate, endDate)
	}
	return out, nil
}

// RecentActivity returns the last days activity records.
func (d *Dataset) RecentActivity(days int) ([]DailyActivity, error) {
	out := suffix(d.Activity, days)
	if len(out) == 0 {
		return nil, notFound("no activity data available")
	}
	return out, nil
}

// RecentSleep returns the last days sleep records.
func (d *Dataset) RecentSleep(days int) ([]SleepRecord, error) {
	out := suffix(d.Sleep, days)
	if len(out) == 0 {
		return nil, notFound("no sleep data available")
	}
	return out, nil
}

// RecentHeart returns the last days heart records.
func (d *Dataset) RecentHeart(days int) ([]HeartRecord, error) {
	out := suffix(d.Heart, days)
	if len(out) == 0 {
		return nil, notFound("no heart data available")
	}
	return out, nil
}

// RecentNutrition returns the last days nutrition records.
func (d *Dataset) RecentNutrition(days int) ([]NutritionRecord, error) {
	out := suffix(d.Nutrition, days)
	if len(out) == 0 {
		return nil, notFound("no nutrition data available")
	}
	return out, nil
}

// MetricHistory walks the days calendar dates ending today (oldest
// first) and emits one point per date on which some record carries the
// metric. Kinds are checked in pooling order and the last match wins.
// Dates without a match are skipped.
func (d *Dataset) MetricHistory(name MetricName, days int) ([]MetricPoint, error) {
	indexes := []map[string]Record{
		indexByDate(d.Activity),
		indexByDate(d.Sleep),
		indexByDate(d.Heart),
		indexByDate(d.Nutrition),
	}

	var out []MetricPoint
	for _, date := range recentDates(timeNow(), days) {
		var (
			value float64
			found bool
		)
		for _, idx := range indexes {
			rec, ok := idx[date]
			if !ok {
				continue
			}
			if v, ok := rec.Metric(name); ok {
				value, found = v, true
			}
		}
		if found {
			out = append(out, MetricPoint{Date: date, Value: value})
		}
	}

	if len(out) == 0 {
		return nil, notFound("no data found for metric: %s", name)
	}
	return out, nil
}

// UserProfile returns the profile when its user_id equals userID.
// A mismatch is not an error: it reports false.
func (d *Dataset) UserProfile(userID string) (UserProfile, bool) {
	if d.Profile.UserID != userID {
		return UserProfile{}, false
	}
	return d.Profile, true
}

// Weekly returns the last weeks*7 records of every kind.
func (d *Dataset) Weekly(weeks int) (Bundle, error) {
	return d.recentBundle(weeks * 7)
}

// Monthly returns the last months*30 records of every kind.
func (d *Dataset) Monthly(months int) (Bundle, error) {
	return d.recentBundle(months * 30)
}

func (d *Dataset) recentBundle(days int) (Bundle, error) {
	out := Bundle{
		Activity:  suffix(d.Activity, days),
		Sleep:     suffix(d.Sleep, days),
		Heart:     suffix(d.Heart, days),
		Nutrition: suffix(d.Nutrition, days),
	}
	if out.anyEmpty() {
		return Bundle{}, notFound("no data available for the specified period")
	}
	return out, nil
}

// Seasonal returns the records of every kind whose month falls in the
// season, regardless of year.
func (d *Dataset) Seasonal(season Season) (Bundle, error) {
	months := SeasonMonths(season)
	out := Bundle{
		Activity:  filterMonths(d.Activity, months),
		Sleep:     filterMonths(d.Sleep, months),
		Heart:     filterMonths(d.Heart, months),
		Nutrition: filterMonths(d.Nutrition, months),
	}
	if out.anyEmpty() {
		return Bundle{}, notFound("no data found for season: %s", season)
	}
	return out, nil
}

// MetricRange pools all records, keeps those inside the inclusive date
// range that carry the metric, and returns them in pooling order. The
// result is not re-sorted by date.
func (d *Dataset) MetricRange(name MetricName, startDate, endDate string) ([]MetricPoint, error) {
	var out []MetricPoint
	for _, rec := range d.pooled() {
		if !inRange(rec.RecordDate(), startDate, endDate) {
			continue
		}
		if v, ok := rec.Metric(name); ok {
			out = append(out, MetricPoint{Date: rec.RecordDate(), Value: v})
		}
	}
	if len(out) == 0 {
		return nil, notFound("no data found for metric %s in range %s to %s", name, startDate, endDate)
	}
	return out, nil
}

// ─── Selection helpers ───────────────────────────────────────────────────────

func findByDate[T Record](recs []T, date string) *T {
	for i := range recs {
		if recs[i].RecordDate() == date {
			rec := recs[i]
			return &rec
		}
	}
	return nil
}

func indexByDate[T Record](recs []T) map[string]Record {
	idx := make(map[string]Record, len(recs))
	for _, r := range recs {
		// first record wins, matching findByDate
		if _, ok := idx[r.RecordDate()]; !ok {
			idx[r.RecordDate()] = r
		}
	}
	return idx
}

func inRange(date, startDate, endDate string) bool {
	return date >= startDate && date <= endDate
}

func filterRange[T Record](recs []T, startDate, endDate string) []T {
	out := make([]T, 0)
	for _, r := range recs {
		if inRange(r.RecordDate(), startDate, endDate) {
			out = append(out, r)
		}
	}
	return out
}

// suffix returns a copy of the last n elements. n larger than the
// sequence yields the whole sequence.
func suffix[T any](recs []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n > len(recs) {
		n = len(recs)
	}
	return slices.Clone(recs[len(recs)-n:])
}

func filterMonths[T Record](recs []T, months []int) []T {
	out := make([]T, 0)
	for _, r := range recs {
		if m, ok := monthOf(r.RecordDate()); ok && slices.Contains(months, m) {
			out = append(out, r)
		}
	}
	return out
}

// monthOf parses the second dash-delimited field of a date.
func monthOf(date string) (int, bool) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return m, true
}

// recentDates returns the days calendar dates ending at now, oldest
// first, in UTC.
func recentDates(now time.Time, days int) []string {
	now = now.UTC()
	out := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		out = append(out, now.AddDate(0, 0, -i).Format(DateLayout))
	}
	return out
}
