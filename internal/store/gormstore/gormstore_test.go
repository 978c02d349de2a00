package gormstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "coachly.db"), false)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGoalToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	goal := models.NewGoal("user-1", models.GoalInput{
		Title:    "Run",
		Category: models.CategoryHealth,
		Priority: models.PriorityMedium,
		Tasks:    []models.Task{{Text: "a"}},
		Reminder: models.DefaultReminder,
	})
	require.NoError(t, s.Goals.Create(ctx, &goal))
	require.NotEmpty(t, goal.ID)
	assert.Equal(t, 0, goal.Progress)

	require.NoError(t, goal.ToggleTask(0))
	require.NoError(t, s.Goals.Update(ctx, &goal))

	loaded, err := s.Goals.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.Progress)
	assert.Equal(t, []models.Task{{Text: "a", Completed: true}}, loaded.Tasks)
	assert.False(t, loaded.Completed)

	require.NoError(t, loaded.ToggleTask(0))
	require.NoError(t, s.Goals.Update(ctx, loaded))

	again, err := s.Goals.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Progress)
	assert.Equal(t, []models.Task{{Text: "a"}}, again.Tasks)
	assert.Equal(t, "user-1", again.UserID)
}

func TestGoalStaleProgressIsRecomputedOnSave(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	goal := models.Goal{
		UserID:   "user-1",
		Title:    "Read",
		Category: models.CategoryEducation,
		Priority: models.PriorityLow,
		Tasks:    []models.Task{{Text: "a", Completed: true}, {Text: "b"}},
		Progress: 7,
	}
	require.NoError(t, s.Goals.Create(ctx, &goal))

	loaded, err := s.Goals.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.Progress)
}

func TestGoalListNewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, title := range []string{"first", "second", "third"} {
		g := models.Goal{UserID: "user-1", Title: title, Category: models.CategoryOther, Priority: models.PriorityLow}
		require.NoError(t, s.Goals.Create(ctx, &g))
		time.Sleep(5 * time.Millisecond)
	}
	other := models.Goal{UserID: "user-2", Title: "theirs", Category: models.CategoryOther, Priority: models.PriorityLow}
	require.NoError(t, s.Goals.Create(ctx, &other))

	goals, err := s.Goals.ListByUser(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "third", goals[0].Title)
	assert.Equal(t, "first", goals[2].Title)

	recent, err := s.Goals.ListByUser(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestGoalDeleteMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.Goals.Delete(context.Background(), "nope")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = s.Goals.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAppointmentsAscendingRegardlessOfInsertOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, offset := range []int{3, 1, 2} {
		a := models.Appointment{
			UserID:   "user-1",
			Title:    "session",
			Date:     base.AddDate(0, 0, offset),
			Duration: 30,
			Coach:    models.DefaultCoach,
			Status:   models.AppointmentScheduled,
		}
		require.NoError(t, s.Appointments.Create(ctx, &a))
	}

	list, err := s.Appointments.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].Date.Before(list[i].Date))
	}

	upcoming, err := s.Appointments.ListUpcoming(ctx, "user-1", base.AddDate(0, 0, 2), 3)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.True(t, upcoming[0].Date.Equal(base.AddDate(0, 0, 2)))
}

func TestJournalUpdatedAtOnlyAfterEdit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entry := models.JournalEntry{UserID: "user-1", Title: "Day one", Content: "hello world", Mood: "happy"}
	require.NoError(t, s.Journals.Create(ctx, &entry))

	loaded, err := s.Journals.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.UpdatedAt)

	now := time.Now()
	loaded.Content = "hello again"
	loaded.UpdatedAt = &now
	require.NoError(t, s.Journals.Update(ctx, loaded))

	edited, err := s.Journals.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, edited.UpdatedAt)
	assert.Equal(t, "hello again", edited.Content)

	n, err := s.Journals.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProfileCreateIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := models.Profile{UID: "uid-1", Email: "a@b.co", Plan: "pro", Provider: models.ProviderPassword}
	created, err := s.Profiles.CreateIfAbsent(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created)

	stored, err := s.Profiles.Get(ctx, "uid-1")
	require.NoError(t, err)

	second := models.Profile{UID: "uid-1", Email: "a@b.co", Provider: models.ProviderGoogle}
	created, err = s.Profiles.CreateIfAbsent(ctx, &second)
	require.NoError(t, err)
	assert.False(t, created)

	after, err := s.Profiles.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, stored.CreatedAt.Equal(after.CreatedAt))
	assert.Equal(t, "pro", after.Plan)
	assert.Equal(t, models.ProviderPassword, after.Provider)
}

func TestCredentialEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Credentials.Create(ctx, &models.Credential{UID: "u1", Email: "a@b.co", PasswordHash: "x"}))
	err := s.Credentials.Create(ctx, &models.Credential{UID: "u2", Email: "a@b.co", PasswordHash: "y"})
	assert.True(t, errors.Is(err, models.ErrAlreadyExists))

	cred, err := s.Credentials.GetByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "u1", cred.UID)
}

func TestResetTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Tokens.SaveReset(ctx, &models.PasswordReset{TokenHash: "h", UID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))

	reset, err := s.Tokens.TakeReset(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "u1", reset.UID)

	_, err = s.Tokens.TakeReset(ctx, "h")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRevokedTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	revoked, err := s.Tokens.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Tokens.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, s.Tokens.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = s.Tokens.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestNotificationsReadState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: "u1", Type: models.NotifyAppointmentScheduled, Title: "Session booked"}
		require.NoError(t, s.Notifications.Create(ctx, &n))
	}
	list, err := s.Notifications.List(ctx, "u1", 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, s.Notifications.MarkRead(ctx, "u1", list[0].ID))
	assert.True(t, errors.Is(s.Notifications.MarkRead(ctx, "u2", list[0].ID), models.ErrNotFound))

	total, unread, err := s.Notifications.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, s.Notifications.MarkAllRead(ctx, "u1"))
	_, unread, err = s.Notifications.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}
