package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/dbx"
	"github.com/dmitrijs2005/gatherly/internal/server/models"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	getErr  error
	nextID  int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	u.ID = "u" + strings.Repeat("1", f.nextID)
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type insertCall struct {
	table   string
	account string
	row     tables.Row
	upsert  bool
}

type fakeTablesRepo struct {
	inserts  []insertCall
	updates  []tables.Row
	selected []tables.Query
	response *tables.Response
}

func (f *fakeTablesRepo) Select(_ context.Context, t tables.Table, _ string, q tables.Query) ([]json.RawMessage, error) {
	f.selected = append(f.selected, q)
	return []json.RawMessage{json.RawMessage(`{"table":"` + t.Name + `"}`)}, nil
}

func (f *fakeTablesRepo) Insert(_ context.Context, t tables.Table, account string, row tables.Row, upsert bool) (json.RawMessage, error) {
	f.inserts = append(f.inserts, insertCall{table: t.Name, account: account, row: row, upsert: upsert})
	return json.Marshal(row)
}

func (f *fakeTablesRepo) Update(_ context.Context, _ tables.Table, _, _ string, row tables.Row) ([]json.RawMessage, error) {
	f.updates = append(f.updates, row)
	return []json.RawMessage{}, nil
}

func (f *fakeTablesRepo) Delete(context.Context, tables.Table, string, string) ([]json.RawMessage, error) {
	return []json.RawMessage{}, nil
}

func (f *fakeTablesRepo) FindInvitation(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (f *fakeTablesRepo) RespondInvitation(_ context.Context, _ string, r tables.Response) (json.RawMessage, error) {
	f.response = &r
	return json.RawMessage(`{}`), nil
}

type fakeManager struct {
	users  *fakeUsersRepo
	tables *fakeTablesRepo
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository { return m.users }
func (m *fakeManager) Tables(dbx.DBTX) tables.Repository { return m.tables }
