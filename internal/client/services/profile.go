package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/dmitrijs2005/gatherly/internal/client/schema"
	"github.com/dmitrijs2005/gatherly/internal/common"
)

// ProfileSync keeps the single profile record of the signed-in account.
// Without a local profile the remote one is pulled; otherwise the local one
// is upserted whenever it changed since the last push.
type ProfileSync interface {
	Sync(ctx context.Context) (models.SyncReport, error)
}

type profileSync struct {
	*syncService
}

func NewProfileSync(d SyncDeps) ProfileSync {
	s := newSyncService(d)
	s.log = s.log.With("path", "profile")
	return &profileSync{syncService: s}
}

func (p *profileSync) Sync(ctx context.Context) (models.SyncReport, error) {
	var report models.SyncReport
	if !p.latch.TryAcquire() {
		return models.SyncReport{Skipped: true}, nil
	}
	defer p.latch.Release()

	if !p.session.IsAuthenticated() {
		return models.SyncReport{Skipped: true}, client.ErrUnauthenticated
	}
	account := p.session.AccountID()

	local, err := p.store.Profiles().GetByID(ctx, account)
	if errors.Is(err, common.ErrorNotFound) {
		return p.pullProfile(ctx, account)
	}
	if err != nil {
		return report, err
	}

	m, err := p.meta(ctx, local.ID, models.KindProfile)
	if err != nil {
		return report, err
	}
	upsert := schema.NewUserProfileUpsert(local)
	hash, err := schema.ContentHash(upsert)
	if err != nil {
		return report, err
	}
	if m.ExistsRemote && hash == m.LastPushedHash {
		report.Unchanged++
		return report, nil
	}

	row, err := p.remote.UpsertProfile(ctx, upsert)
	if err != nil {
		p.log.Error(ctx, "profile push failed", "error", err)
		return report, fmt.Errorf("upsert profile: %w", err)
	}
	if m.ExistsRemote {
		report.Updated++
	} else {
		report.Created++
	}
	m.ExistsRemote = true
	m.LastPushedHash = hash
	if t, err := schema.ParseTimestamp(row.UpdatedAt); err == nil && t.After(local.UpdatedAt) {
		local.UpdatedAt = t
		if err := p.store.Profiles().Upsert(ctx, local); err != nil {
			return report, err
		}
	}
	return report, p.state.Put(ctx, m)
}

func (p *profileSync) pullProfile(ctx context.Context, account string) (models.SyncReport, error) {
	var report models.SyncReport

	row, err := p.remote.GetProfile(ctx, account)
	if errors.Is(err, client.ErrNotFound) {
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("get profile: %w", err)
	}
	prof, diags := schema.UserProfileFromRow(row)
	p.logDiagnostics(ctx, row.ID, diags)

	if err := p.store.Profiles().Upsert(ctx, prof); err != nil {
		return report, err
	}
	hash, err := schema.ContentHash(schema.NewUserProfileUpsert(prof))
	if err != nil {
		return report, err
	}
	report.Pulled++
	return report, p.state.Put(ctx, models.SyncMeta{EntityID: prof.ID, Kind: models.KindProfile, ExistsRemote: true, LastPushedHash: hash})
}
