package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/throttle"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func testToday() dateonly.Date { return dateonly.Of(testNow) }

type fakeRepo struct {
	assets    []entity.Asset
	owners    []entity.Owner
	prefs     []entity.OwnerPreference
	assetsErr error

	created   []entity.DispatchLog
	listLimit int
	counts    []entity.DispatchCount
	since     time.Time
}

func (f *fakeRepo) ListAssets(context.Context) ([]entity.Asset, error) {
	return f.assets, f.assetsErr
}

func (f *fakeRepo) ListOwners(context.Context) ([]entity.Owner, error) { return f.owners, nil }

func (f *fakeRepo) ListPreferences(context.Context) ([]entity.OwnerPreference, error) {
	return f.prefs, nil
}

func (f *fakeRepo) CreateDispatchLogs(_ context.Context, logs []entity.DispatchLog) error {
	f.created = append(f.created, logs...)
	return nil
}

func (f *fakeRepo) ListDispatchLogs(_ context.Context, limit int) ([]entity.DispatchLog, error) {
	f.listLimit = limit
	return f.created, nil
}

func (f *fakeRepo) CountDispatchLogsSince(_ context.Context, since time.Time) ([]entity.DispatchCount, error) {
	f.since = since
	return f.counts, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []entity.Notification
	fail map[string]error
}

func (f *fakeSender) Send(_ context.Context, n entity.Notification) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail[n.AssetID]; err != nil {
		return map[string]any{"message": err.Error()}, err
	}
	f.sent = append(f.sent, n)
	return map[string]any{"id": n.AssetID + "-" + n.Channel.String()}, nil
}

type fakeLedger struct {
	taken    map[string]bool
	released []string
	marked   []string
}

func ledgerKey(date dateonly.Date, assetID string, ch entity.Channel) string {
	return date.String() + ":" + assetID + ":" + ch.String()
}

func (f *fakeLedger) Acquire(_ context.Context, date dateonly.Date, assetID string, ch entity.Channel) (bool, error) {
	k := ledgerKey(date, assetID, ch)
	if f.taken[k] {
		return false, nil
	}
	f.taken[k] = true
	return true, nil
}

func (f *fakeLedger) MarkSent(_ context.Context, date dateonly.Date, assetID string, ch entity.Channel) error {
	f.marked = append(f.marked, ledgerKey(date, assetID, ch))
	return nil
}

func (f *fakeLedger) Release(_ context.Context, date dateonly.Date, assetID string, ch entity.Channel) error {
	k := ledgerKey(date, assetID, ch)
	delete(f.taken, k)
	f.released = append(f.released, k)
	return nil
}

type fakeReport struct {
	saved []entity.RunReport
	err   error
}

func (f *fakeReport) Save(_ context.Context, r entity.RunReport) (string, error) {
	f.saved = append(f.saved, r)
	return "reports/" + r.Date.String() + "/run.json", f.err
}

type fakeEvent struct {
	published []entity.RunReport
}

func (f *fakeEvent) PublishCheckCompleted(_ context.Context, r entity.RunReport) error {
	f.published = append(f.published, r)
	return nil
}

type countingThrottle struct {
	interval time.Duration
	waits    int
}

func (c *countingThrottle) Wait(context.Context) error {
	c.waits++
	return nil
}

type seqID struct{ n int64 }

func (s *seqID) Generate() int64 {
	s.n++
	return s.n
}

type harness struct {
	uc       *Usecase
	repo     *fakeRepo
	mail     *fakeSender
	chat     *fakeSender
	throttle *countingThrottle
}

type harnessOption func(*Dependency)

func newHarness(t *testing.T, cfgYAML string, opts ...harnessOption) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(cfgYAML))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	h := &harness{
		repo:     &fakeRepo{},
		mail:     &fakeSender{},
		chat:     &fakeSender{},
		throttle: &countingThrottle{},
	}

	dep := Dependency{
		RepoDB:    h.repo,
		RepoMail:  h.mail,
		RepoChat:  h.chat,
		Config:    cfg,
		UID:       &seqID{},
		Clock:     clock.NewFixed(testNow),
		Validator: v,
		Throttle: func(d time.Duration) throttle.Throttle {
			h.throttle.interval = d
			return h.throttle
		},
	}
	for _, opt := range opts {
		opt(&dep)
	}

	h.uc = NewExpiry(dep)
	return h
}
