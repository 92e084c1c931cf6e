package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// fakeContentRepo is an in-memory implementation of domain.ContentRepository
type fakeContentRepo struct {
	mu        sync.Mutex
	contents  map[string]domain.Content
	createErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{contents: make(map[string]domain.Content)}
}

func (f *fakeContentRepo) Create(_ context.Context, content *domain.Content) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents[content.ID] = *content
	return nil
}

func (f *fakeContentRepo) GetByID(_ context.Context, id string) (*domain.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contents[id]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return &c, nil
}

func (f *fakeContentRepo) ListVisible(_ context.Context, now time.Time) ([]domain.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Content
	for _, c := range f.contents {
		if !c.ScheduledTime.After(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contents)
}

// fakeNotificationRepo is an in-memory implementation of
// domain.NotificationRepository
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) ListSince(_ context.Context, since time.Time) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.notifications {
		if !n.Time.Before(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

// fakePreferenceRepo is an in-memory implementation of
// domain.PreferenceRepository
type fakePreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]domain.MessagePreference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: make(map[string]domain.MessagePreference)}
}

func prefKey(employeeID, contentID string) string {
	return employeeID + "|" + contentID
}

func (f *fakePreferenceRepo) Upsert(_ context.Context, pref *domain.MessagePreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefKey(pref.EmployeeID, pref.ContentID)] = *pref
	return nil
}

func (f *fakePreferenceRepo) Get(_ context.Context, employeeID, contentID string) (*domain.MessagePreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prefs[prefKey(employeeID, contentID)]
	if !ok {
		return nil, domain.ErrPreferenceNotFound
	}
	return &p, nil
}

// fakeViewRepo is an in-memory implementation of domain.ViewRepository
type fakeViewRepo struct {
	mu    sync.Mutex
	views map[string]domain.View
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{views: make(map[string]domain.View)}
}

func viewKey(contentID, employeeID string) string {
	return contentID + "|" + employeeID
}

func (f *fakeViewRepo) Get(_ context.Context, contentID, employeeID string) (*domain.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.views[viewKey(contentID, employeeID)]
	if !ok {
		return nil, domain.ErrViewNotFound
	}
	return &v, nil
}

func (f *fakeViewRepo) Upsert(_ context.Context, view *domain.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[viewKey(view.ContentID, view.EmployeeID)] = *view
	return nil
}

func (f *fakeViewRepo) ListByEmployee(_ context.Context, employeeID string) ([]domain.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.View
	for _, v := range f.views {
		if v.EmployeeID == employeeID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeViewRepo) ListByContent(_ context.Context, contentID string) ([]domain.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.View
	for _, v := range f.views {
		if v.ContentID == contentID {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeReactionRepo is an in-memory implementation of
// domain.ReactionRepository. With conflictOnCreate set, Create reports a
// uniqueness violation even when Get saw no row, imitating a concurrent
// insert winning the race. With missOnUpdate set, Update reports the row
// gone, imitating a concurrent delete after the lookup.
type fakeReactionRepo struct {
	mu               sync.Mutex
	reactions        map[string]domain.Reaction
	conflictOnCreate bool
	missOnUpdate     bool
	updateCalls      int
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: make(map[string]domain.Reaction)}
}

func (f *fakeReactionRepo) Get(_ context.Context, contentID, employeeID string) (*domain.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reactions[viewKey(contentID, employeeID)]
	if !ok {
		return nil, domain.ErrReactionNotFound
	}
	return &r, nil
}

func (f *fakeReactionRepo) Create(_ context.Context, reaction *domain.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := viewKey(reaction.ContentID, reaction.EmployeeID)
	if f.conflictOnCreate {
		return domain.ErrReactionExists
	}
	if _, ok := f.reactions[key]; ok {
		return domain.ErrReactionExists
	}
	f.reactions[key] = *reaction
	return nil
}

func (f *fakeReactionRepo) Update(_ context.Context, reaction *domain.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.missOnUpdate {
		delete(f.reactions, viewKey(reaction.ContentID, reaction.EmployeeID))
		return domain.ErrReactionNotFound
	}
	f.reactions[viewKey(reaction.ContentID, reaction.EmployeeID)] = *reaction
	return nil
}

// fakeFeedbackRepo is an in-memory implementation of
// domain.FeedbackRepository
type fakeFeedbackRepo struct {
	mu   sync.Mutex
	rows []domain.Feedback
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *feedback)
	return nil
}

// fakeDeviceRepo is an in-memory implementation of domain.DeviceRepository
type fakeDeviceRepo struct {
	mu       sync.Mutex
	statuses map[string]domain.DeviceStatus
	updates  map[string]domain.DeviceUpdateStatus
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{
		statuses: make(map[string]domain.DeviceStatus),
		updates:  make(map[string]domain.DeviceUpdateStatus),
	}
}

func (f *fakeDeviceRepo) GetStatus(_ context.Context, employeeID string) (*domain.DeviceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.statuses[employeeID]
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	return &s, nil
}

func (f *fakeDeviceRepo) UpsertStatus(_ context.Context, status *domain.DeviceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[status.EmployeeID] = *status
	return nil
}

func (f *fakeDeviceRepo) UpsertUpdateStatus(_ context.Context, status *domain.DeviceUpdateStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[viewKey(status.EmployeeID, status.DeviceID)] = *status
	return nil
}

// fakeTimers records armed timers and lets tests fire them by hand
type fakeTimers struct {
	mu    sync.Mutex
	armed []fakeTimer
}

type fakeTimer struct {
	at       time.Time
	fn       func()
	canceled bool
}

func (f *fakeTimers) Schedule(at time.Time, fn func()) domain.CancelFunc {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.armed)
	f.armed = append(f.armed, fakeTimer{at: at, fn: fn})
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.armed[idx].canceled {
			return false
		}
		f.armed[idx].canceled = true
		return true
	}
}

func (f *fakeTimers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.armed)
}

// fireAll runs every armed, uncanceled timer regardless of its deadline
func (f *fakeTimers) fireAll() {
	f.mu.Lock()
	pending := make([]func(), 0, len(f.armed))
	for i := range f.armed {
		if !f.armed[i].canceled {
			f.armed[i].canceled = true
			pending = append(pending, f.armed[i].fn)
		}
	}
	f.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
