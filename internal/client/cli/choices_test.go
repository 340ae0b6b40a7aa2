package cli

import (
	"testing"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoose(t *testing.T) {
	got, err := choose("event type", "Baby_Shower", eventTypes)
	require.NoError(t, err)
	assert.Equal(t, models.EventTypeBabyShower, got)

	got2, err := choose("response", "waiting-approval", responses)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationWaitingApproval, got2)

	_, err = choose("category", "cars", categories)
	assert.ErrorContains(t, err, "expected one of: electronics")
}

func TestMatchID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz"}
	self := func(s string) string { return s }

	got, err := matchID("event", ids, self, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	got, err = matchID("event", ids, self, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)

	_, err = matchID("event", ids, self, "ab")
	assert.ErrorContains(t, err, "matches 2 events")

	_, err = matchID("event", ids, self, "nope")
	assert.ErrorContains(t, err, "no event matches")

	_, err = matchID("event", ids, self, "")
	assert.Error(t, err)
}
