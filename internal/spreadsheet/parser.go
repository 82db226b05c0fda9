// Package spreadsheet converts the health workbook into a Dataset.
//
// The workbook has five sheets. Each sheet's first row is the header;
// every following non-blank row becomes one record. Cells are read raw,
// so date-formatted cells arrive as spreadsheet serial numbers.
package spreadsheet

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/xuri/excelize/v2"
)

// Sheet names expected in the workbook.
const (
	SheetUserProfile   = "user_profile"
	SheetDailyActivity = "daily_activity"
	SheetSleepData     = "sleep_data"
	SheetHeartRecovery = "heart_recovery"
	SheetNutrition     = "nutrition"
)

// unixEpochSerial is the spreadsheet serial number of 1970-01-01.
const unixEpochSerial = 25569

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateTimeLayouts are accepted for date cells holding a full timestamp.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parser reads xlsx workbooks.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts raw workbook bytes into a Dataset. Every failure is
// returned as a *healthdata.ParseError.
func (p *Parser) Parse(data []byte) (*healthdata.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &healthdata.ParseError{Err: fmt.Errorf("opening workbook: %w", err)}
	}
	defer f.Close()

	ds, err := parseWorkbook(f)
	if err != nil {
		return nil, &healthdata.ParseError{Err: err}
	}
	return ds, nil
}

func parseWorkbook(f *excelize.File) (*healthdata.Dataset, error) {
	ds := &healthdata.Dataset{}

	profileRows, err := readSheet(f, SheetUserProfile)
	if err != nil {
		return nil, err
	}
	if len(profileRows) == 0 {
		return nil, fmt.Errorf("%s sheet has no data rows", SheetUserProfile)
	}
	if ds.Profile, err = parseProfile(profileRows[0]); err != nil {
		return nil, err
	}

	activityRows, err := readSheet(f, SheetDailyActivity)
	if err != nil {
		return nil, err
	}
	for _, r := range activityRows {
		rec, err := parseActivity(r)
		if err != nil {
			return nil, err
		}
		ds.Activity = append(ds.Activity, rec)
	}

	sleepRows, err := readSheet(f, SheetSleepData)
	if err != nil {
		return nil, err
	}
	for _, r := range sleepRows {
		rec, err := parseSleep(r)
		if err != nil {
			return nil, err
		}
		ds.Sleep = append(ds.Sleep, rec)
	}

	heartRows, err := readSheet(f, SheetHeartRecovery)
	if err != nil {
		return nil, err
	}
	for _, r := range heartRows {
		rec, err := parseHeart(r)
		if err != nil {
			return nil, err
		}
		ds.Heart = append(ds.Heart, rec)
	}

	nutritionRows, err := readSheet(f, SheetNutrition)
	if err != nil {
		return nil, err
	}
	for _, r := range nutritionRows {
		rec, err := parseNutrition(r)
		if err != nil {
			return nil, err
		}
		ds.Nutrition = append(ds.Nutrition, rec)
	}

	return ds, nil
}

// ─── Rows ────────────────────────────────────────────────────────────────────

// row is one data row keyed by header name.
type row struct {
	sheet  string
	number int // 1-based spreadsheet row number
	cells  map[string]string
	text   map[string]bool // columns whose cell is stored as a string
}

// dateColumn is the header of the date cell in every record sheet.
const dateColumn = "date"

// readSheet returns the data rows of a sheet, skipping blank rows.
func readSheet(f *excelize.File, sheet string) ([]row, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, &healthdata.MissingSheetError{Sheet: sheet}
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []row
	for i, cells := range raw[1:] {
		if isBlank(cells) {
			continue
		}
		r := row{
			sheet:  sheet,
			number: i + 2,
			cells:  make(map[string]string, len(header)),
			text:   make(map[string]bool),
		}
		for j, v := range cells {
			if j >= len(header) || header[j] == "" {
				continue
			}
			r.cells[header[j]] = strings.TrimSpace(v)
			if header[j] == dateColumn {
				text, err := isTextCell(f, sheet, j+1, r.number)
				if err != nil {
					return nil, fmt.Errorf("reading %s row %d: %w", sheet, r.number, err)
				}
				r.text[header[j]] = text
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// isTextCell reports whether the cell at the given 1-based coordinates
// is stored as a string rather than a number.
func isTextCell(f *excelize.File, sheet string, col, rowNum int) (bool, error) {
	ref, err := excelize.CoordinatesToCellName(col, rowNum)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return false, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return true, nil
	}
	return false, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r row) str(col string) string {
	return r.cells[col]
}

// decimal parses a numeric cell. Empty cells read as zero.
func (r row) decimal(col string) (float64, error) {
	v := r.cells[col]
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: column %s: %q is not a number", r.sheet, r.number, col, v)
	}
	return f, nil
}

func (r row) integer(col string) (int, error) {
	f, err := r.decimal(col)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

func (r row) date(col string) (string, error) {
	return normalizeDate(r.cells[col], r.text[col], r.sheet, r.number)
}

// normalizeDate converts a date cell to YYYY-MM-DD. Accepted forms are
// a canonical date string, a spreadsheet serial number, and a full
// timestamp string. Only numeric cells are read as serial numbers; a
// text cell such as "20240115" is invalid.
func normalizeDate(v string, text bool, sheet string, rowNum int) (string, error) {
	if isoDate.MatchString(v) {
		return v, nil
	}
	if !text {
		if serial, err := strconv.ParseFloat(v, 64); err == nil {
			return serialToDate(serial), nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format(healthdata.DateLayout), nil
		}
	}
	return "", &healthdata.InvalidDateError{Sheet: sheet, Row: rowNum, Value: v}
}

// serialToDate converts a spreadsheet serial number to a UTC date.
func serialToDate(serial float64) string {
	secs := (serial - unixEpochSerial) * 86400
	return time.Unix(int64(math.Floor(secs)), 0).UTC().Format(healthdata.DateLayout)
}

// ─── Record builders ─────────────────────────────────────────────────────────

// fields collects the first error across a sequence of cell reads.
type fields struct {
	r   row
	err error
}

func (f *fields) decimal(col string) float64 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.decimal(col)
	f.err = err
	return v
}

func (f *fields) integer(col string) int {
	if f.err != nil {
		return 0
	}
	v, err := f.r.integer(col)
	f.err = err
	return v
}

func (f *fields) date(col string) string {
	if f.err != nil {
		return ""
	}
	v, err := f.r.date(col)
	f.err = err
	return v
}

func parseProfile(r row) (healthdata.UserProfile, error) {
	f := &fields{r: r}
	p := healthdata.UserProfile{
		UserID:        r.str("user_id"),
		Age:           f.integer("age"),
		Gender:        r.str("gender"),
		WeightKg:      f.decimal("weight_kg"),
		HeightCm:      f.decimal("height_cm"),
		FitnessGoal:   r.str("fitness_goal"),
		TargetSteps:   f.integer("target_steps"),
		TargetSleep:   f.decimal("target_sleep"),
		TargetWaterML: f.decimal("target_water_ml"),
	}
	return p, f.err
}

func parseActivity(r row) (healthdata.DailyActivity, error) {
	f := &fields{r: r}
	a := healthdata.DailyActivity{
		Date:            f.date("date"),
		Steps:           f.integer("steps"),
		ActiveMinutes:   f.integer("active_minutes"),
		CaloriesBurned:  f.decimal("calories_burned"),
		DistanceKm:      f.decimal("distance_km"),
		WorkoutType:     r.str("workout_type"),
		WorkoutDuration: f.integer("workout_duration"),
		IntensityScore:  f.decimal("intensity_score"),
	}
	return a, f.err
}

func parseSleep(r row) (healthdata.SleepRecord, error) {
	f := &fields{r: r}
	s := healthdata.SleepRecord{
		Date:            f.date("date"),
		TotalHours:      f.decimal("total_hours"),
		DeepSleepHours:  f.decimal("deep_sleep_hours"),
		RemSleepHours:   f.decimal("rem_sleep_hours"),
		LightSleepHours: f.decimal("light_sleep_hours"),
		Efficiency:      f.decimal("efficiency"),
		TimeToSleep:     f.integer("time_to_sleep"),
		Awakenings:      f.integer("awakenings"),
		SleepQuality:    r.str("sleep_quality"),
	}
	return s, f.err
}

func parseHeart(r row) (healthdata.HeartRecord, error) {
	f := &fields{r: r}
	h := healthdata.HeartRecord{
		Date:           f.date("date"),
		RestingHR:      f.integer("resting_hr"),
		HRV:            f.decimal("hrv"),
		RecoveryScore:  f.decimal("recovery_score"),
		StressLevel:    f.decimal("stress_level"),
		BodyBattery:    f.decimal("body_battery"),
		ReadinessScore: f.decimal("readiness_score"),
		VO2Max:         f.decimal("vo2_max"),
	}
	return h, f.err
}

func parseNutrition(r row) (healthdata.NutritionRecord, error) {
	f := &fields{r: r}
	n := healthdata.NutritionRecord{
		Date:     f.date("date"),
		WaterML:  f.decimal("water_ml"),
		Calories: f.decimal("calories"),
		ProteinG: f.decimal("protein_g"),
		CarbsG:   f.decimal("carbs_g"),
		FatsG:    f.decimal("fats_g"),
		FiberG:   f.decimal("fiber_g"),
		SugarG:   f.decimal("sugar_g"),
		AlcoholG: f.decimal("alcohol_g"),
	}
	return n, f.err
}
