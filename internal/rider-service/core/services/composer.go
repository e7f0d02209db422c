package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/domain/translations"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"
)

var scheduleLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Composer turns a form into a messaging deep link.
type Composer struct {
	baseURL   string
	recipient string
	loc       *time.Location
}

func NewComposer(baseURL, recipient string, loc *time.Location) ports.IComposer {
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		recipient: recipient,
		loc:       loc,
	}
}

func (c *Composer) Compose(form model.FormState, locale model.Locale) (string, error) {
	at, err := ParseSchedule(form.ScheduledAt, c.loc)
	if err != nil {
		return "", err
	}

	tbl := translations.For(locale)
	msg := strings.NewReplacer(
		"{vehicle}", tbl.Vehicles.Label(form.VehicleType),
		"{start}", form.Start,
		"{destination}", form.Destination,
		"{date}", FormatSchedule(at, tbl),
	).Replace(tbl.Message)

	return fmt.Sprintf("%s/%s?text=%s", c.baseURL, url.PathEscape(c.recipient), escapeText(msg)), nil
}

// ParseSchedule reads a datetime-local value. Values without an offset are
// taken in loc.
func ParseSchedule(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &myerrors.InvalidScheduleError{Raw: raw}
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, &myerrors.InvalidScheduleError{Raw: raw}
}

// FormatSchedule renders date and time of day with the table's names and
// digits.
func FormatSchedule(t time.Time, tbl translations.Table) string {
	s := fmt.Sprintf(tbl.DateLayout,
		tbl.Weekdays[t.Weekday()],
		strconv.Itoa(t.Day()),
		tbl.Months[t.Month()-1],
		strconv.Itoa(t.Year()),
		t.Format("15:04"),
	)
	return tbl.LocalizeDigits(s)
}

// escapeText percent-encodes like encodeURIComponent: spaces become %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
