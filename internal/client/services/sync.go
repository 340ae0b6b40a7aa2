package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/entities"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/gatherly/internal/client/schema"
	"github.com/dmitrijs2005/gatherly/internal/logging"
)

// SyncService reconciles the local entity store with the backend.
//
// FullSync pulls remote events and then pushes local ones. QuickSync only
// pushes. Only one sync of any kind runs at a time; a call made while
// another is in flight returns a Skipped report and no error.
type SyncService interface {
	FullSync(ctx context.Context) (models.SyncReport, error)
	QuickSync(ctx context.Context) (models.SyncReport, error)
	Status() models.SyncStatus
	LastSyncTime(ctx context.Context) (*time.Time, error)
}

// BlobSource reads the bytes of a local attachment.
type BlobSource interface {
	Read(path string) (data []byte, contentType string, err error)
}

type SyncDeps struct {
	Remote  client.Client
	Store   entities.Store
	State   syncstate.Store
	Session client.Session
	Blobs   BlobSource
	Logger  logging.Logger
	// Latch is shared with the other sync paths; nil gets a private one.
	Latch *Latch
	Now   func() time.Time
}

type syncService struct {
	remote  client.Client
	store   entities.Store
	state   syncstate.Store
	session client.Session
	blobs   BlobSource
	log     logging.Logger
	latch   *Latch
	now     func() time.Time

	mu     sync.Mutex
	status models.SyncStatus
}

func NewSyncService(d SyncDeps) SyncService {
	return newSyncService(d)
}

func newSyncService(d SyncDeps) *syncService {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	if d.Latch == nil {
		d.Latch = &Latch{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &syncService{
		remote:  d.Remote,
		store:   d.Store,
		state:   d.State,
		session: d.Session,
		blobs:   d.Blobs,
		log:     d.Logger.With("module", "sync"),
		latch:   d.Latch,
		now:     d.Now,
		status:  models.SyncStatus{Phase: models.SyncIdle},
	}
}

func (s *syncService) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *syncService) setPhase(phase models.SyncPhase, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Phase = phase
	s.status.Message = msg
}

func (s *syncService) LastSyncTime(ctx context.Context) (*time.Time, error) {
	return s.state.LastSyncTime(ctx)
}

func (s *syncService) FullSync(ctx context.Context) (models.SyncReport, error) {
	if !s.latch.TryAcquire() {
		s.log.Debug(ctx, "sync already running, skipping full sync")
		return models.SyncReport{Skipped: true}, nil
	}
	defer s.latch.Release()

	if !s.session.IsAuthenticated() {
		s.setPhase(models.SyncError, "not signed in")
		return models.SyncReport{Skipped: true}, client.ErrUnauthenticated
	}

	s.setPhase(models.SyncPulling, "")
	report, err := s.pull(ctx)
	if err != nil {
		s.setPhase(models.SyncError, err.Error())
		s.log.Error(ctx, "pull failed", "error", err)
		return report, fmt.Errorf("pull: %w", err)
	}

	s.setPhase(models.SyncPushing, "")
	pushed, err := s.push(ctx)
	report.Add(pushed)
	if err != nil {
		s.setPhase(models.SyncError, err.Error())
		s.log.Error(ctx, "push failed", "error", err)
		return report, fmt.Errorf("push: %w", err)
	}

	at := s.now().UTC()
	if err := s.state.SetLastSyncTime(ctx, at); err != nil {
		s.setPhase(models.SyncError, err.Error())
		return report, fmt.Errorf("record last sync time: %w", err)
	}

	s.mu.Lock()
	s.status = models.SyncStatus{Phase: models.SyncCompleted, Message: summary(report), LastSyncAt: &at}
	s.mu.Unlock()

	s.log.Info(ctx, "full sync finished",
		"pulled", report.Pulled, "refreshed", report.Refreshed, "created", report.Created,
		"updated", report.Updated, "deleted", report.Deleted, "failed", report.Failed)
	return report, nil
}

// QuickSync pushes pending local changes. It silently does nothing while
// signed out or while another sync runs.
func (s *syncService) QuickSync(ctx context.Context) (models.SyncReport, error) {
	if !s.latch.TryAcquire() {
		return models.SyncReport{Skipped: true}, nil
	}
	defer s.latch.Release()

	if !s.session.IsAuthenticated() {
		return models.SyncReport{Skipped: true}, nil
	}

	prev := s.Status()
	s.setPhase(models.SyncPushing, "")
	report, err := s.push(ctx)
	if err != nil {
		s.setPhase(models.SyncError, err.Error())
		s.log.Error(ctx, "quick sync failed", "error", err)
		return report, fmt.Errorf("push: %w", err)
	}

	s.mu.Lock()
	s.status = models.SyncStatus{Phase: models.SyncCompleted, Message: summary(report), LastSyncAt: prev.LastSyncAt}
	s.mu.Unlock()
	return report, nil
}

func summary(r models.SyncReport) string {
	msg := fmt.Sprintf("%d pulled, %d refreshed, %d created, %d updated, %d deleted",
		r.Pulled, r.Refreshed, r.Created, r.Updated, r.Deleted)
	if r.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", r.Failed)
	}
	return msg
}

func (s *syncService) logDiagnostics(ctx context.Context, id string, diags schema.Diagnostics) {
	for _, d := range diags {
		s.log.Warn(ctx, "remote value not translated as-is",
			"table", d.Table, "id", id, "field", d.Field, "value", d.Value, "error", d.Err)
	}
}
