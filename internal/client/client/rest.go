package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/schema"
	"github.com/dmitrijs2005/gatherly/internal/common"
)

const (
	restPrefix    = "/rest/v1/"
	storagePrefix = "/storage/v1/object/"
	publicPrefix  = "/storage/v1/object/public/"
	authPrefix    = "/auth/v1/"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// maxResponseBody caps how much of a response body is read.
var maxResponseBody int64 = 32 << 20

// RESTClient talks to a PostgREST style backend:
//
//	GET    /rest/v1/{table}?select=*&col=eq.v&order=col.asc
//	POST   /rest/v1/{table}                 insert, returns the rows
//	PATCH  /rest/v1/{table}?id=eq.{id}      update, empty result means not found
//	DELETE /rest/v1/{table}?id=eq.{id}
//	POST   /storage/v1/object/{bucket}/{name}
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	session    Session
}

type Option func(*RESTClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) { c.httpClient = hc }
}

// WithTimeout sets the request timeout. A client passed with
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) { c.timeout = d }
}

func NewRESTClient(baseURL string, session Session, opts ...Option) *RESTClient {
	c := &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    session,
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// PublicURL is the address an uploaded object is served from.
func (c *RESTClient) PublicURL(bucket, name string) string {
	return c.baseURL + publicPrefix + url.PathEscape(bucket) + "/" + url.PathEscape(name)
}

type query struct {
	eq    [][2]string
	order string
}

func (q query) values() url.Values {
	v := url.Values{}
	v.Set("select", "*")
	for _, kv := range q.eq {
		v.Set(kv[0], "eq."+kv[1])
	}
	if q.order != "" {
		v.Set("order", q.order+".asc")
	}
	return v
}

func byID(id string) url.Values {
	v := url.Values{}
	v.Set("id", "eq."+id)
	return v
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	prefer      string
	anonymous   bool
}

// do performs r and returns the response body. The session is checked
// before the request is even built.
func (c *RESTClient) do(ctx context.Context, r request) ([]byte, error) {
	var token string
	if !r.anonymous {
		if c.session == nil || !c.session.IsAuthenticated() {
			return nil, ErrUnauthenticated
		}
		token = c.session.AccessToken()
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.prefer != "" {
		req.Header.Set(common.PreferHeaderName, r.prefer)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	tooLarge := int64(len(body)) > maxResponseBody

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if tooLarge {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxResponseBody)
		}
		return body, nil
	}
	if tooLarge {
		body = body[:maxResponseBody]
	}
	return nil, mapStatus(resp.StatusCode, body)
}

func mapStatus(code int, body []byte) error {
	msg := errorMessage(body)
	var base error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		base = ErrUnauthorized
	case code == http.StatusNotFound:
		base = ErrNotFound
	case code == http.StatusConflict:
		base = ErrAlreadyExists
	case code >= 500:
		base = ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", code, msg)
	}
	if msg == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, msg)
}

func errorMessage(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func decode[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return v, nil
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func selectRows[T any](ctx context.Context, c *RESTClient, table string, q query) ([]T, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: restPrefix + table, query: q.values()})
	if err != nil {
		return nil, err
	}
	return decode[[]T](body)
}

func insertRow[T any](ctx context.Context, c *RESTClient, table string, payload any, prefer string) (T, error) {
	var zero T
	b, err := jsonBody(payload)
	if err != nil {
		return zero, err
	}
	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        restPrefix + table,
		body:        b,
		contentType: "application/json",
		prefer:      prefer,
	})
	if err != nil {
		return zero, err
	}
	rows, err := decode[[]T](body)
	if err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, fmt.Errorf("%w: expected one row, got %d", ErrMalformedResponse, len(rows))
	}
	return rows[0], nil
}

func updateRow[T any](ctx context.Context, c *RESTClient, table, id string, payload any) (T, error) {
	var zero T
	b, err := jsonBody(payload)
	if err != nil {
		return zero, err
	}
	body, err := c.do(ctx, request{
		method:      http.MethodPatch,
		path:        restPrefix + table,
		query:       byID(id),
		body:        b,
		contentType: "application/json",
		prefer:      common.PreferReturnRepresentation,
	})
	if err != nil {
		return zero, err
	}
	rows, err := decode[[]T](body)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	return rows[0], nil
}

func (c *RESTClient) deleteRow(ctx context.Context, table, id string) error {
	body, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   restPrefix + table,
		query:  byID(id),
		prefer: common.PreferReturnRepresentation,
	})
	if err != nil {
		return err
	}
	rows, err := decode[[]json.RawMessage](body)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	return nil
}

func (c *RESTClient) accountID() string {
	if c.session == nil {
		return ""
	}
	return c.session.AccountID()
}

func (c *RESTClient) ListEvents(ctx context.Context) ([]schema.EventRow, error) {
	q := query{eq: [][2]string{{"owner_id", c.accountID()}}, order: "date"}
	return selectRows[schema.EventRow](ctx, c, schema.TableEvents, q)
}

func (c *RESTClient) InsertEvent(ctx context.Context, e schema.EventInsert) (schema.EventRow, error) {
	return insertRow[schema.EventRow](ctx, c, schema.TableEvents, e, common.PreferReturnRepresentation)
}

func (c *RESTClient) UpdateEvent(ctx context.Context, id string, u schema.EventUpdate) (schema.EventRow, error) {
	return updateRow[schema.EventRow](ctx, c, schema.TableEvents, id, u)
}

func (c *RESTClient) DeleteEvent(ctx context.Context, id string) error {
	return c.deleteRow(ctx, schema.TableEvents, id)
}

func (c *RESTClient) ListInvitations(ctx context.Context, eventID string) ([]schema.InvitationRow, error) {
	q := query{eq: [][2]string{{"event_id", eventID}}, order: "created_at"}
	return selectRows[schema.InvitationRow](ctx, c, schema.TableInvitations, q)
}

func (c *RESTClient) InsertInvitation(ctx context.Context, i schema.InvitationInsert) (schema.InvitationRow, error) {
	return insertRow[schema.InvitationRow](ctx, c, schema.TableInvitations, i, common.PreferReturnRepresentation)
}

func (c *RESTClient) DeleteInvitation(ctx context.Context, id string) error {
	return c.deleteRow(ctx, schema.TableInvitations, id)
}

func (c *RESTClient) ListEventPhotos(ctx context.Context, eventID string) ([]schema.EventPhotoRow, error) {
	q := query{eq: [][2]string{{"event_id", eventID}}, order: "display_order"}
	return selectRows[schema.EventPhotoRow](ctx, c, schema.TableEventPhotos, q)
}

func (c *RESTClient) InsertEventPhoto(ctx context.Context, p schema.EventPhotoInsert) (schema.EventPhotoRow, error) {
	return insertRow[schema.EventPhotoRow](ctx, c, schema.TableEventPhotos, p, common.PreferReturnRepresentation)
}

func (c *RESTClient) DeleteEventPhoto(ctx context.Context, id string) error {
	return c.deleteRow(ctx, schema.TableEventPhotos, id)
}

func (c *RESTClient) ListWishlistItems(ctx context.Context) ([]schema.WishlistItemRow, error) {
	q := query{eq: [][2]string{{"user_id", c.accountID()}}, order: "created_at"}
	return selectRows[schema.WishlistItemRow](ctx, c, schema.TableWishlistItems, q)
}

func (c *RESTClient) InsertWishlistItem(ctx context.Context, w schema.WishlistItemInsert) (schema.WishlistItemRow, error) {
	return insertRow[schema.WishlistItemRow](ctx, c, schema.TableWishlistItems, w, common.PreferReturnRepresentation)
}

func (c *RESTClient) UpdateWishlistItem(ctx context.Context, id string, u schema.WishlistItemUpdate) (schema.WishlistItemRow, error) {
	return updateRow[schema.WishlistItemRow](ctx, c, schema.TableWishlistItems, id, u)
}

func (c *RESTClient) DeleteWishlistItem(ctx context.Context, id string) error {
	return c.deleteRow(ctx, schema.TableWishlistItems, id)
}

func (c *RESTClient) GetProfile(ctx context.Context, id string) (schema.UserProfileRow, error) {
	rows, err := selectRows[schema.UserProfileRow](ctx, c, schema.TableUserProfiles, query{eq: [][2]string{{"id", id}}})
	if err != nil {
		return schema.UserProfileRow{}, err
	}
	if len(rows) == 0 {
		return schema.UserProfileRow{}, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	return rows[0], nil
}

func (c *RESTClient) UpsertProfile(ctx context.Context, p schema.UserProfileUpsert) (schema.UserProfileRow, error) {
	prefer := common.PreferMergeDuplicates + "," + common.PreferReturnRepresentation
	return insertRow[schema.UserProfileRow](ctx, c, schema.TableUserProfiles, p, prefer)
}

func (c *RESTClient) UploadBlob(ctx context.Context, bucket, name string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	_, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        storagePrefix + url.PathEscape(bucket) + "/" + url.PathEscape(name),
		body:        bytes.NewReader(data),
		contentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return c.PublicURL(bucket, name), nil
}

// BlobNameFromURL returns the last path segment of a public object URL.
func BlobNameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no object name in %q", raw)
	}
	return name, nil
}

func (c *RESTClient) DeleteBlobByURL(ctx context.Context, bucket, raw string) error {
	name, err := BlobNameFromURL(raw)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodDelete,
		path:   storagePrefix + url.PathEscape(bucket) + "/" + url.PathEscape(name),
	})
	return err
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *RESTClient) auth(ctx context.Context, endpoint, email, password string) (Token, error) {
	b, err := jsonBody(credentials{Email: email, Password: password})
	if err != nil {
		return Token{}, err
	}
	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        authPrefix + endpoint,
		body:        b,
		contentType: "application/json",
		anonymous:   true,
	})
	if err != nil {
		return Token{}, err
	}
	t, err := decode[Token](body)
	if err != nil {
		return Token{}, err
	}
	if t.AccessToken == "" {
		return Token{}, errors.Join(ErrMalformedResponse, errors.New("empty access token"))
	}
	return t, nil
}

func (c *RESTClient) SignIn(ctx context.Context, email, password string) (Token, error) {
	return c.auth(ctx, "token", email, password)
}

func (c *RESTClient) SignUp(ctx context.Context, email, password string) (Token, error) {
	return c.auth(ctx, "signup", email, password)
}

var (
	_ Client        = (*RESTClient)(nil)
	_ Authenticator = (*RESTClient)(nil)
)
