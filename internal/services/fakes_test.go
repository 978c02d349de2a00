package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"github.com/google/uuid"
)

// memStore is an in-memory store whose repositories count writes.
type memStore struct {
	mu     sync.Mutex
	writes int

	goals    map[string]models.Goal
	appts    map[string]models.Appointment
	journals map[string]models.JournalEntry
	profiles map[string]models.Profile
	creds    map[string]models.Credential
	resets   map[string]models.PasswordReset
	revoked  map[string]time.Time
	notifs   []models.Notification
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		goals:    map[string]models.Goal{},
		appts:    map[string]models.Appointment{},
		journals: map[string]models.JournalEntry{},
		profiles: map[string]models.Profile{},
		creds:    map[string]models.Credential{},
		resets:   map[string]models.PasswordReset{},
		revoked:  map[string]time.Time{},
	}
}

func (m *memStore) Store() *store.Store {
	return &store.Store{
		Goals:         memGoals{m},
		Appointments:  memAppointments{m},
		Journals:      memJournals{m},
		Profiles:      memProfiles{m},
		Credentials:   memCredentials{m},
		Tokens:        memTokens{m},
		Notifications: memNotifications{m},
		Close:         func() error { return nil },
	}
}

func (m *memStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// tick hands out strictly increasing creation times.
func (m *memStore) tick() time.Time {
	m.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
}

type memGoals struct{ m *memStore }

func (r memGoals) Create(_ context.Context, g *models.Goal) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.writes++
	g.ID = uuid.NewString()
	g.CreatedAt = r.m.tick()
	g.Recompute()
	r.m.goals[g.ID] = *g
	return nil
}

func (r memGoals) Get(_ context.Context, id string) (*models.Goal, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	g, ok := r.m.goals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	g.Tasks = append([]models.Task(nil), g.Tasks...)
	g.Milestones = append([]models.Milestone(nil), g.Milestones...)
	return &g, nil
}

func (r memGoals) ListByUser(_ context.Context, userID string, limit int) ([]models.Goal, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Goal
	for _, g := range r.m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memGoals) Update(_ context.Context, g *models.Goal) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.goals[g.ID]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	g.Recompute()
	r.m.goals[g.ID] = *g
	return nil
}

func (r memGoals) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.goals[id]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	delete(r.m.goals, id)
	return nil
}

type memAppointments struct{ m *memStore }

func (r memAppointments) Create(_ context.Context, a *models.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.writes++
	a.ID = uuid.NewString()
	a.CreatedAt = r.m.tick()
	r.m.appts[a.ID] = *a
	return nil
}

func (r memAppointments) Get(_ context.Context, id string) (*models.Appointment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.appts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (r memAppointments) ListByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.m.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	models.SortAppointments(out)
	return out, nil
}

func (r memAppointments) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.Appointment, error) {
	all, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.UpcomingAppointments(all, from, limit), nil
}

func (r memAppointments) Update(_ context.Context, a *models.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.appts[a.ID]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	r.m.appts[a.ID] = *a
	return nil
}

func (r memAppointments) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.appts[id]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	delete(r.m.appts, id)
	return nil
}

type memJournals struct{ m *memStore }

func (r memJournals) Create(_ context.Context, e *models.JournalEntry) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.writes++
	e.ID = uuid.NewString()
	e.CreatedAt = r.m.tick()
	r.m.journals[e.ID] = *e
	return nil
}

func (r memJournals) Get(_ context.Context, id string) (*models.JournalEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.journals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func (r memJournals) ListByUser(_ context.Context, userID string) ([]models.JournalEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.JournalEntry
	for _, e := range r.m.journals {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memJournals) Count(ctx context.Context, userID string) (int, error) {
	list, err := r.ListByUser(ctx, userID)
	return len(list), err
}

func (r memJournals) Update(_ context.Context, e *models.JournalEntry) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.journals[e.ID]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	r.m.journals[e.ID] = *e
	return nil
}

func (r memJournals) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.journals[id]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	delete(r.m.journals, id)
	return nil
}

type memProfiles struct{ m *memStore }

func (r memProfiles) Get(_ context.Context, uid string) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (r memProfiles) CreateIfAbsent(_ context.Context, p *models.Profile) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[p.UID]; ok {
		return false, nil
	}
	r.m.writes++
	p.CreatedAt = r.m.tick()
	r.m.profiles[p.UID] = *p
	return true, nil
}

func (r memProfiles) Update(_ context.Context, p *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[p.UID]; !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	r.m.profiles[p.UID] = *p
	return nil
}

func (r memProfiles) SetDeviceToken(_ context.Context, uid, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[uid]
	if !ok {
		return models.ErrNotFound
	}
	r.m.writes++
	p.DeviceToken = token
	r.m.profiles[uid] = p
	return nil
}

type memCredentials struct{ m *memStore }

func (r memCredentials) Create(_ context.Context, c *models.Credential) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.creds {
		if existing.Email == c.Email {
			return models.ErrAlreadyExists
		}
	}
	r.m.writes++
	r.m.creds[c.UID] = *c
	return nil
}

func (r memCredentials) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.creds {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r memCredentials) GetByUID(_ context.Context, uid string) (*models.Credential, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.creds[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (r memCredentials) Update(_ context.Context, c *models.Credential) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.writes++
	r.m.creds[c.UID] = *c
	return nil
}

type memTokens struct{ m *memStore }

func (r memTokens) SaveReset(_ context.Context, reset *models.PasswordReset) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.resets[reset.TokenHash] = *reset
	return nil
}

func (r memTokens) TakeReset(_ context.Context, hash string) (*models.PasswordReset, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	reset, ok := r.m.resets[hash]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(r.m.resets, hash)
	return &reset, nil
}

func (r memTokens) Revoke(_ context.Context, jti string, exp time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.revoked[jti] = exp
	return nil
}

func (r memTokens) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.revoked[jti]
	return ok, nil
}

type memNotifications struct{ m *memStore }

func (r memNotifications) Create(_ context.Context, n *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = r.m.tick()
	r.m.notifs = append([]models.Notification{*n}, r.m.notifs...)
	return nil
}

func (r memNotifications) List(_ context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var mine []models.Notification
	for _, n := range r.m.notifs {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	mine = mine[offset:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

func (r memNotifications) Counts(_ context.Context, userID string) (int64, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var total, unread int64
	for _, n := range r.m.notifs {
		if n.UserID == userID {
			total++
			if !n.Read {
				unread++
			}
		}
	}
	return total, unread, nil
}

func (r memNotifications) MarkRead(_ context.Context, userID, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, n := range r.m.notifs {
		if n.ID == id && n.UserID == userID {
			r.m.notifs[i].Read = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (r memNotifications) MarkAllRead(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, n := range r.m.notifs {
		if n.UserID == userID {
			r.m.notifs[i].Read = true
		}
	}
	return nil
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) Publish(_ string, e models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type spyPusher struct {
	mu    sync.Mutex
	sent  []string
	token string
}

func (p *spyPusher) Push(_ context.Context, token, title, _ string, _ map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	p.sent = append(p.sent, title)
	return nil
}

type spyMailer struct {
	to, link string
}

func (m *spyMailer) SendPasswordReset(_ context.Context, to, _, link string) error {
	m.to, m.link = to, link
	return nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(id models.Identity) (string, error) {
	return "token-" + id.UID, nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
