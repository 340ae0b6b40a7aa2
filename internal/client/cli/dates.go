package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var naturalDates = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseWhen reads an event date with an optional time of day. It takes
// "2025-08-01", "2025-08-01 18:30" or English phrases such as
// "next friday 7pm". A phrase that yields midnight is an all-day date.
func parseWhen(text string, now time.Time) (models.Date, *models.TimeOfDay, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Date{}, nil, fmt.Errorf("%w: empty", models.ErrInvalidDate)
	}

	if d, err := models.ParseDate(text); err == nil {
		return d, nil, nil
	}
	if fields := strings.Fields(text); len(fields) == 2 {
		d, derr := models.ParseDate(fields[0])
		t, terr := models.ParseTimeOfDay(fields[1])
		if derr == nil && terr == nil {
			return d, &t, nil
		}
	}

	y, m, day := now.Date()
	base := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	r, err := naturalDates.Parse(text, base)
	if err != nil {
		return models.Date{}, nil, fmt.Errorf("%w: %q: %w", models.ErrInvalidDate, text, err)
	}
	if r == nil {
		return models.Date{}, nil, fmt.Errorf("%w: cannot understand %q", models.ErrInvalidDate, text)
	}

	d := models.DateOf(r.Time)
	h, mi, sec := r.Time.Clock()
	if h == 0 && mi == 0 && sec == 0 {
		return d, nil, nil
	}
	return d, &models.TimeOfDay{Hour: h, Minute: mi, Second: sec}, nil
}
