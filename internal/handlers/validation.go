package handlers

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// RegisterValidators adds the custom binding rules used by the request DTOs.
// It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("calendar_date", validateCalendarDate)
}

// validateCalendarDate accepts YYYY-MM-DD strings naming a real calendar date.
func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := domain.ParseDate(fl.Field().String())
	return err == nil
}

// dateOrToday parses an optional calendar date query value.
func dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return domain.Today(), nil
	}
	return domain.ParseDate(s)
}

func parseRange(p dto.DateRangeParams) (time.Time, time.Time, error) {
	start, err := domain.ParseDate(p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := domain.ParseDate(p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
