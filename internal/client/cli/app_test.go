package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/config"
	"github.com/dmitrijs2005/gatherly/internal/client/localdb"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/productmeta"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/gatherly/internal/client/services"
	"github.com/dmitrijs2005/gatherly/internal/logging"
	"github.com/stretchr/testify/require"
)

// Thursday.
var testNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

type stubSession struct {
	account string
	authed  bool
}

func (s *stubSession) IsAuthenticated() bool { return s.authed }
func (s *stubSession) AccountID() string     { return s.account }
func (s *stubSession) AccessToken() string   { return "tok" }

type stubSync struct {
	full, quick int
	report      models.SyncReport
	err         error
}

func (s *stubSync) FullSync(context.Context) (models.SyncReport, error) {
	s.full++
	return s.report, s.err
}
func (s *stubSync) QuickSync(context.Context) (models.SyncReport, error) {
	s.quick++
	return s.report, s.err
}
func (s *stubSync) Status() models.SyncStatus { return models.SyncStatus{Phase: models.SyncIdle} }
func (s *stubSync) LastSyncTime(context.Context) (*time.Time, error) {
	return nil, nil
}

type stubRunner struct {
	calls int
	err   error
}

func (r *stubRunner) Sync(context.Context) (models.SyncReport, error) {
	r.calls++
	return models.SyncReport{Pulled: 1}, r.err
}

type stubAuth struct {
	email     string
	password  string
	err       error
	account   string
	loggedOut bool
}

func (s *stubAuth) Login(_ context.Context, email string, password []byte) error {
	s.email, s.password = email, string(password)
	return s.err
}
func (s *stubAuth) Register(_ context.Context, email string, password []byte) error {
	s.email, s.password = email, string(password)
	return s.err
}
func (s *stubAuth) Logout(context.Context) error                   { s.loggedOut = true; return nil }
func (s *stubAuth) Ping(context.Context) error                     { return nil }
func (s *stubAuth) CurrentAccount(context.Context) (string, error) { return s.account, nil }
func (s *stubAuth) Close(context.Context) error                    { return nil }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubProducts struct {
	meta *productmeta.Metadata
	err  error
	urls []string
}

func (p *stubProducts) Fetch(_ context.Context, url string) (*productmeta.Metadata, error) {
	p.urls = append(p.urls, url)
	return p.meta, p.err
}

type testEnv struct {
	app      *App
	out      *bytes.Buffer
	session  *stubSession
	sync     *stubSync
	wishlist *stubRunner
	profile  *stubRunner
	auth     *stubAuth
	products *stubProducts
	state    syncstate.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	edb, err := localdb.OpenEntities(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = edb.Close() })
	sdb, err := localdb.OpenSyncState(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sdb.Close() })

	env := &testEnv{
		out:      &bytes.Buffer{},
		session:  &stubSession{account: "acc-1", authed: true},
		sync:     &stubSync{},
		wishlist: &stubRunner{},
		profile:  &stubRunner{},
		auth:     &stubAuth{account: "me@example.com"},
		products: &stubProducts{},
		state:    syncstate.NewSQLiteStore(sdb),
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()

	env.app = &App{
		config:   cfg,
		log:      logging.NewNop(),
		in:       bufio.NewReader(strings.NewReader("")),
		out:      env.out,
		now:      func() time.Time { return testNow },
		loc:      time.UTC,
		session:  env.session,
		auth:     env.auth,
		events:   services.NewEventService(entities.NewSQLiteStore(edb), env.state, env.session, nil),
		sync:     env.sync,
		wishlist: env.wishlist,
		profile:  env.profile,
		state:    env.state,
		health:   stubPinger{},
		products: env.products,
	}
	return env
}

// run executes the command line and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	e.out.Reset()
	root := NewRootCommand(e.app)
	root.SetOut(e.out)
	root.SetErr(e.out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return e.out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (e *testEnv) onlyEvent(t *testing.T) *models.Event {
	t.Helper()
	events, err := e.app.events.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	return events[0]
}
