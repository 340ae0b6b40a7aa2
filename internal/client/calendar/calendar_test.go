package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, now, time.UTC))
	assert.Equal(t, stubFeed, buf.String())
}

func TestWrite_AllDayAndTimed(t *testing.T) {
	allDay := models.NewEvent("u", models.EventTypeBirthday, "Ann", models.NewDate(2025, 7, 14), now)
	timed := models.NewEvent("u", models.EventTypeParty, "Party", models.NewDate(2025, 8, 1), now)
	timed.Time = &models.TimeOfDay{Hour: 18, Minute: 30}
	timed.LocationName = ptr("Club")
	timed.LocationAddress = ptr("Main st 1")

	guest := models.NewInvitation(timed.ID, "Bob", now)
	guest.GuestEmail = ptr("bob@example.com")
	guest.Status = models.InvitationAccepted
	noMail := models.NewInvitation(timed.ID, "Cleo", now)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Entry{{Event: allDay}, {Event: timed, Guests: []*models.Invitation{guest, noMail}}}, now, berlin))
	out := strings.ReplaceAll(buf.String(), "\r\n ", "")

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+ProdID)
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:"+allDay.ID+"@gatherly")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250714")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250715")
	// 18:30 CEST is 16:30 UTC.
	assert.Contains(t, out, "DTSTART:20250801T163000Z")
	assert.Contains(t, out, "SUMMARY:Party")
	assert.Contains(t, out, "mailto:bob@example.com")
	assert.Contains(t, out, "ACCEPTED")
	assert.NotContains(t, out, "Cleo")
}
