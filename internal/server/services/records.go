package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/cryptox"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
)

const shareTokenBytes = 16

// RecordService applies table operations for an authenticated account and
// fills in the fields the server owns, such as invitation share links.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publicURL   string
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, publicURL string) *RecordService {
	return &RecordService{db: db, repomanager: m, publicURL: strings.TrimRight(publicURL, "/")}
}

// ShareURL is the public link for an invitation share token.
func (s *RecordService) ShareURL(token string) string {
	return s.publicURL + "/i/" + token
}

func (s *RecordService) List(ctx context.Context, account, table string, q tables.Query) ([]json.RawMessage, error) {
	t, err := tables.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Tables(s.db).Select(ctx, t, account, q)
}

func (s *RecordService) Insert(ctx context.Context, account, table string, row tables.Row, upsert bool) (json.RawMessage, error) {
	t, err := tables.Lookup(table)
	if err != nil {
		return nil, err
	}

	if t.Name == common.TableInvitations && row.String("share_token") == "" {
		token, err := cryptox.RandomHex(shareTokenBytes)
		if err != nil {
			return nil, common.ErrorInternal
		}
		if err := row.Set("share_token", token); err != nil {
			return nil, err
		}
		if err := row.Set("share_url", s.ShareURL(token)); err != nil {
			return nil, err
		}
	}

	return s.repomanager.Tables(s.db).Insert(ctx, t, account, row, upsert)
}

func (s *RecordService) Update(ctx context.Context, account, table, id string, row tables.Row) ([]json.RawMessage, error) {
	t, err := tables.Lookup(table)
	if err != nil {
		return nil, err
	}
	if _, ok := row["share_token"]; ok {
		return nil, fmt.Errorf("%w: share_token cannot change", common.ErrValidation)
	}
	return s.repomanager.Tables(s.db).Update(ctx, t, account, id, row)
}

func (s *RecordService) Delete(ctx context.Context, account, table, id string) ([]json.RawMessage, error) {
	t, err := tables.Lookup(table)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Tables(s.db).Delete(ctx, t, account, id)
}

// Invitation returns the public view of a shared invitation.
func (s *RecordService) Invitation(ctx context.Context, shareToken string) (json.RawMessage, error) {
	return s.repomanager.Tables(s.db).FindInvitation(ctx, shareToken)
}

var guestResponses = map[string]bool{
	"accepted":         true,
	"declined":         true,
	"waiting_approval": true,
}

// Respond records a guest answer given through a share link.
func (s *RecordService) Respond(ctx context.Context, shareToken string, r tables.Response) (json.RawMessage, error) {
	if !guestResponses[r.Status] {
		return nil, fmt.Errorf("%w: status %q", common.ErrValidation, r.Status)
	}
	if r.PlusOnes < 0 {
		return nil, fmt.Errorf("%w: plus_ones must not be negative", common.ErrValidation)
	}
	if r.Status == "declined" {
		r.PlusOnes = 0
	}
	return s.repomanager.Tables(s.db).RespondInvitation(ctx, shareToken, r)
}
