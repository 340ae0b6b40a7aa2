package schema

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrUnknownEnum      = errors.New("unknown enum value")
)

// timestamp layouts accepted from the backend, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func FormatDate(d models.Date) string {
	return d.String()
}

func ParseDate(s string) (models.Date, error) {
	return models.ParseDate(s)
}

// FormatTimestamp renders t as an ISO-8601 instant in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp accepts ISO-8601 instants. Values without an offset are
// taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// ToMinorUnits converts a major currency amount to cents, rounding to the
// nearest cent.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}

func (c *collector) date(field, s string) models.Date {
	d, err := ParseDate(s)
	if err != nil {
		c.add(field, s, err)
	}
	return d
}

func (c *collector) optDate(field string, s *string) *models.Date {
	if s == nil {
		return nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		c.add(field, *s, err)
		return nil
	}
	return &d
}

func (c *collector) optTime(field string, s *string) *models.TimeOfDay {
	if s == nil {
		return nil
	}
	t, err := models.ParseTimeOfDay(*s)
	if err != nil {
		c.add(field, *s, err)
		return nil
	}
	return &t
}

func (c *collector) timestamp(field, s string) time.Time {
	t, err := ParseTimestamp(s)
	if err != nil {
		c.add(field, s, err)
	}
	return t
}

func (c *collector) optTimestamp(field string, s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := ParseTimestamp(*s)
	if err != nil {
		c.add(field, *s, err)
		return nil
	}
	return &t
}

func optString[T fmt.Stringer](v *T) *string {
	if v == nil {
		return nil
	}
	s := (*v).String()
	return &s
}

func optTimestampString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}
