package tools

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/mark3labs/mcp-go/mcp"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isValidDate(fl.Field().String())
	})
	return v
}

// isValidDate reports whether s is YYYY-MM-DD and a real calendar date.
func isValidDate(s string) bool {
	if !isoDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(healthdata.DateLayout, s)
	return err == nil
}

// bindArgs decodes the request arguments into dst and validates them.
// The returned error message is suitable for a tool error result.
func bindArgs(req mcp.CallToolRequest, dst any) error {
	if err := req.BindArguments(dst); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return friendlyError(err)
	}
	return nil
}

func friendlyError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "isodate":
		return fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ─── Argument shapes ─────────────────────────────────────────────────────────

type dateArgs struct {
	Date string `json:"date" validate:"required,isodate"`
}

type dateRangeArgs struct {
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
}

type daysArgs struct {
	Days *int `json:"days" validate:"required,min=1,max=730"`
}

type metricHistoryArgs struct {
	MetricName string `json:"metricName" validate:"required,oneof=steps active_minutes calories_burned distance_km total_hours efficiency resting_hr hrv recovery_score water_ml calories protein_g"`
	Days       *int   `json:"days" validate:"omitempty,min=1,max=730"`
}

type userProfileArgs struct {
	UserID string `json:"userId" validate:"required"`
}

type weeksArgs struct {
	Weeks *int `json:"weeks" validate:"required,min=1,max=104"`
}

type monthsArgs struct {
	Months *int `json:"months" validate:"required,min=1,max=24"`
}

type seasonArgs struct {
	Season string `json:"season" validate:"required,oneof=winter spring summer fall"`
}

type metricRangeArgs struct {
	MetricName string `json:"metricName" validate:"required,oneof=steps active_minutes calories_burned distance_km total_hours efficiency resting_hr hrv recovery_score water_ml calories protein_g"`
	StartDate  string `json:"startDate" validate:"required,isodate"`
	EndDate    string `json:"endDate" validate:"required,isodate"`
}
