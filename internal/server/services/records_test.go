package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordService() (*RecordService, *fakeTablesRepo) {
	repo := &fakeTablesRepo{}
	return NewRecordService(nil, &fakeManager{users: newFakeUsersRepo(), tables: repo}, "https://gatherly.example/"), repo
}

func TestRecordService_InvitationGetsShareLink(t *testing.T) {
	s, repo := newRecordService()

	row := tables.Row{"id": json.RawMessage(`"i1"`), "event_id": json.RawMessage(`"e1"`)}
	_, err := s.Insert(context.Background(), "u1", common.TableInvitations, row, false)
	require.NoError(t, err)

	require.Len(t, repo.inserts, 1)
	got := repo.inserts[0].row
	token := got.String("share_token")
	assert.Len(t, token, 2*shareTokenBytes)
	assert.Equal(t, "https://gatherly.example/i/"+token, got.String("share_url"))
}

func TestRecordService_OtherTablesUntouched(t *testing.T) {
	s, repo := newRecordService()

	row := tables.Row{"id": json.RawMessage(`"w1"`)}
	_, err := s.Insert(context.Background(), "u1", common.TableWishlistItems, row, true)
	require.NoError(t, err)

	require.Len(t, repo.inserts, 1)
	assert.True(t, repo.inserts[0].upsert)
	assert.NotContains(t, repo.inserts[0].row, "share_token")
}

func TestRecordService_UnknownTable(t *testing.T) {
	s, _ := newRecordService()
	ctx := context.Background()

	_, err := s.List(ctx, "u1", "users", tables.Query{})
	assert.ErrorIs(t, err, tables.ErrUnknownTable)
	_, err = s.Insert(ctx, "u1", "users", tables.Row{}, false)
	assert.ErrorIs(t, err, tables.ErrUnknownTable)
	_, err = s.Update(ctx, "u1", "users", "x", tables.Row{})
	assert.ErrorIs(t, err, tables.ErrUnknownTable)
	_, err = s.Delete(ctx, "u1", "users", "x")
	assert.ErrorIs(t, err, tables.ErrUnknownTable)
}

func TestRecordService_ShareTokenIsFixed(t *testing.T) {
	s, _ := newRecordService()
	_, err := s.Update(context.Background(), "u1", common.TableInvitations, "i1",
		tables.Row{"share_token": json.RawMessage(`"mine"`)})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRecordService_Respond(t *testing.T) {
	s, repo := newRecordService()
	ctx := context.Background()

	_, err := s.Respond(ctx, "tok", tables.Response{Status: "declined", PlusOnes: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.response.PlusOnes)

	_, err = s.Respond(ctx, "tok", tables.Response{Status: "pending"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Respond(ctx, "tok", tables.Response{Status: "accepted", PlusOnes: -1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRecordService_ShareURL(t *testing.T) {
	s, _ := newRecordService()
	assert.True(t, strings.HasSuffix(s.ShareURL("abc"), "example/i/abc"))
}
