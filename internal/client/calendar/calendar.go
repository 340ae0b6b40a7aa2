// Package calendar exports events as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	ical "github.com/emersion/go-ical"
)

const (
	ProdID   = "-//Gatherly//Events//EN"
	Version  = "2.0"
	CalName  = "Gatherly"
	uidHost  = "gatherly"
	stubFeed = "BEGIN:VCALENDAR\r\nVERSION:" + Version + "\r\nPRODID:" + ProdID + "\r\nEND:VCALENDAR\r\n"
)

// Entry is one event with the guests to list as attendees.
type Entry struct {
	Event  *models.Event
	Guests []*models.Invitation
}

// Write encodes entries as a VCALENDAR. Events without a time of day become
// all-day events; timed events are interpreted in loc and written in UTC.
func Write(w io.Writer, entries []Entry, now time.Time, loc *time.Location) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, stubFeed)
		return err
	}
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, Version)
	cal.Props.SetText(ical.PropProductID, ProdID)
	cal.Props.SetText("X-WR-CALNAME", CalName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, en := range entries {
		cal.Children = append(cal.Children, event(en, now, loc).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func event(en Entry, now time.Time, loc *time.Location) *ical.Event {
	e := en.Event
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, e.ID+"@"+uidHost)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ev.Props.SetText(ical.PropSummary, e.Title)
	ev.Props.SetText(ical.PropCategories, string(e.Type))

	if e.Time == nil {
		ev.Props.SetDate(ical.PropDateTimeStart, e.Date.In(time.UTC))
		ev.Props.SetDate(ical.PropDateTimeEnd, e.Date.In(time.UTC).AddDate(0, 0, 1))
	} else {
		start := e.Date.In(loc).Add(time.Duration(e.Time.Hour)*time.Hour +
			time.Duration(e.Time.Minute)*time.Minute + time.Duration(e.Time.Second)*time.Second)
		ev.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	}

	if e.Description != nil && *e.Description != "" {
		ev.Props.SetText(ical.PropDescription, *e.Description)
	}
	if loc := location(e); loc != "" {
		ev.Props.SetText(ical.PropLocation, loc)
	}
	if e.CoverImageURL != nil && *e.CoverImageURL != "" {
		ev.Props.SetText(ical.PropURL, *e.CoverImageURL)
	}

	for _, g := range en.Guests {
		if g.GuestEmail == nil || *g.GuestEmail == "" {
			continue
		}
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + *g.GuestEmail
		p.Params.Set(ical.ParamCommonName, g.GuestName)
		p.Params.Set(ical.ParamParticipationStatus, partStat(g.Status))
		ev.Props.Add(p)
	}
	return ev
}

func location(e *models.Event) string {
	var parts []string
	if e.LocationName != nil && *e.LocationName != "" {
		parts = append(parts, *e.LocationName)
	}
	if e.LocationAddress != nil && *e.LocationAddress != "" {
		parts = append(parts, *e.LocationAddress)
	}
	return strings.Join(parts, ", ")
}

func partStat(s models.InvitationStatus) string {
	switch s {
	case models.InvitationAccepted:
		return "ACCEPTED"
	case models.InvitationDeclined:
		return "DECLINED"
	default:
		return "NEEDS-ACTION"
	}
}
