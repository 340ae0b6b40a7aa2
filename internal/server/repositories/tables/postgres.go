package tables

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/dbx"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/pgerr"
	"github.com/jackc/pgx/v5"
)

// ErrInvitationClosed is returned when a share link is answered after the
// invitation reached a final status.
var ErrInvitationClosed = errors.New("invitation already answered")

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// scope restricts alias to rows owned by account.
func scope(t Table, alias string, a *args, account string) string {
	p := a.add(account)
	if t.EventScoped {
		return fmt.Sprintf("%s.event_id IN (SELECT e.id FROM events e WHERE e.owner_id = %s)", alias, p)
	}
	return fmt.Sprintf("%s.%s = %s", alias, ident(t.OwnerColumn), p)
}

func (r *PostgresRepository) Select(ctx context.Context, t Table, account string, q Query) ([]json.RawMessage, error) {
	var a args
	var sb strings.Builder

	fmt.Fprintf(&sb, "SELECT row_to_json(t.*) FROM %s t WHERE %s", ident(t.Name), scope(t, "t", &a, account))
	for _, f := range q.Filters {
		if !t.Readable(f.Column) {
			return nil, fmt.Errorf("%w: cannot filter on %q", common.ErrValidation, f.Column)
		}
		fmt.Fprintf(&sb, " AND t.%s = %s", ident(f.Column), a.add(f.Value))
	}
	if q.Order != "" {
		if !t.Readable(q.Order) {
			return nil, fmt.Errorf("%w: cannot order by %q", common.ErrValidation, q.Order)
		}
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY t.%s %s", ident(q.Order), dir)
	}

	return r.collect(ctx, sb.String(), a)
}

func (r *PostgresRepository) Insert(ctx context.Context, t Table, account string, row Row, upsert bool) (json.RawMessage, error) {
	cols := row.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty payload", common.ErrValidation)
	}
	for _, c := range cols {
		if !t.Writable(c) {
			return nil, fmt.Errorf("%w: unknown column %q", common.ErrValidation, c)
		}
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}

	var a args
	quoted := make([]string, len(cols))
	picked := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
		picked[i] = "r." + ident(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s AS t (%s) SELECT %s FROM json_populate_record(NULL::%s, %s) r WHERE %s",
		ident(t.Name), strings.Join(quoted, ", "), strings.Join(picked, ", "),
		ident(t.Name), a.add(string(payload)), scope(t, "r", &a, account))

	if upsert {
		sets := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			if c == "id" {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", ident(c), ident(c)))
		}
		if t.Touch != "" {
			sets = append(sets, ident(t.Touch)+" = now()")
		}
		if len(sets) == 0 {
			sb.WriteString(" ON CONFLICT (id) DO NOTHING")
		} else {
			fmt.Fprintf(&sb, " ON CONFLICT (id) DO UPDATE SET %s WHERE %s",
				strings.Join(sets, ", "), scope(t, "t", &a, account))
		}
	}
	sb.WriteString(" RETURNING row_to_json(t.*)")

	rows, err := r.collect(ctx, sb.String(), a)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrForbidden
	}
	return rows[0], nil
}

func (r *PostgresRepository) Update(ctx context.Context, t Table, account, id string, row Row) ([]json.RawMessage, error) {
	cols := row.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty payload", common.ErrValidation)
	}

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		if !t.Writable(c) {
			return nil, fmt.Errorf("%w: unknown column %q", common.ErrValidation, c)
		}
		if t.Immutable(c) {
			return nil, fmt.Errorf("%w: column %q cannot change", common.ErrValidation, c)
		}
		sets = append(sets, fmt.Sprintf("%s = r.%s", ident(c), ident(c)))
	}
	if t.Touch != "" {
		sets = append(sets, ident(t.Touch)+" = now()")
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}

	var a args
	query := fmt.Sprintf("UPDATE %s AS t SET %s FROM json_populate_record(NULL::%s, %s) r WHERE t.id = %s AND %s RETURNING row_to_json(t.*)",
		ident(t.Name), strings.Join(sets, ", "), ident(t.Name),
		a.add(string(payload)), a.add(id), scope(t, "t", &a, account))

	return r.collect(ctx, query, a)
}

func (r *PostgresRepository) Delete(ctx context.Context, t Table, account, id string) ([]json.RawMessage, error) {
	var a args
	query := fmt.Sprintf("DELETE FROM %s AS t WHERE t.id = %s AND %s RETURNING row_to_json(t.*)",
		ident(t.Name), a.add(id), scope(t, "t", &a, account))

	return r.collect(ctx, query, a)
}

// FindInvitation returns the invitation behind a share token together
// with the public details of its event.
func (r *PostgresRepository) FindInvitation(ctx context.Context, shareToken string) (json.RawMessage, error) {
	query :=
		`SELECT json_build_object(
		    'invitation', row_to_json(i.*),
		    'event', json_build_object(
		        'title', e.title, 'type', e.type, 'date', e.date, 'time', e.time,
		        'location_name', e.location_name, 'location_address', e.location_address,
		        'cover_image_url', e.cover_image_url))
		 FROM invitations i JOIN events e ON e.id = i.event_id
		 WHERE i.share_token = $1
		 `

	var doc []byte
	err := r.db.QueryRowContext(ctx, query, shareToken).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, pgerr.Wrap(err)
	}
	return doc, nil
}

// RespondInvitation records a guest answer. Only pending and
// waiting_approval invitations accept one.
func (r *PostgresRepository) RespondInvitation(ctx context.Context, shareToken string, resp Response) (json.RawMessage, error) {
	query :=
		`UPDATE invitations
		 SET status = $2, plus_ones = $3, message = COALESCE($4, message),
		     responded_at = now(), updated_at = now()
		 WHERE share_token = $1 AND status IN ('pending', 'waiting_approval')
		 RETURNING row_to_json(invitations.*)
		 `

	var doc []byte
	err := r.db.QueryRowContext(ctx, query, shareToken, resp.Status, resp.PlusOnes, resp.Message).Scan(&doc)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, pgerr.Wrap(err)
	}

	if _, err := r.FindInvitation(ctx, shareToken); err != nil {
		return nil, err
	}
	return nil, ErrInvitationClosed
}

func (r *PostgresRepository) collect(ctx context.Context, query string, a args) ([]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, pgerr.Wrap(err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}

var _ Repository = (*PostgresRepository)(nil)
