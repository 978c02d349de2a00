package services

import (
	"context"
	"testing"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apptFixture struct {
	mem    *memStore
	pusher *spyPusher
	svc    *AppointmentService
}

func newApptFixture(t *testing.T, loc *time.Location) apptFixture {
	t.Helper()
	mem := newMemStore()
	pusher := &spyPusher{}
	s := mem.Store()
	opts := Options{Now: fixedClock(testNow), Location: loc}

	notifier := NewNotifier(s.Notifications, s.Profiles, pusher, opts)
	notifier.async = false
	return apptFixture{mem: mem, pusher: pusher, svc: NewAppointmentService(s.Appointments, notifier, opts)}
}

func TestCreateAppointmentInThePastNeverWrites(t *testing.T) {
	f := newApptFixture(t, time.UTC)

	_, err := f.svc.Create(context.Background(), alice, models.AppointmentRequest{
		Title: "Check-in",
		Date:  "2026-03-09",
		Time:  "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, "Appointment cannot be in the past", models.FieldErrors(err)["date"])
	assert.Zero(t, f.mem.Writes())
}

func TestCreateAppointmentCombinesDateAndTime(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+2", 2*60*60)
	f := newApptFixture(t, loc)
	profile := models.NewProfile(alice)
	profile.DeviceToken = "device-1"
	_, err := f.mem.Store().Profiles.CreateIfAbsent(ctx, &profile)
	require.NoError(t, err)

	appt, err := f.svc.Create(ctx, alice, models.AppointmentRequest{
		Title: " Weekly review ",
		Date:  "2026-03-11",
		Time:  "09:30",
	})
	require.NoError(t, err)
	assert.True(t, appt.Date.Equal(time.Date(2026, 3, 11, 7, 30, 0, 0, time.UTC)))
	assert.Equal(t, "Weekly review", appt.Title)
	assert.Equal(t, models.DefaultCoach, appt.Coach)
	assert.Equal(t, models.DefaultDuration, appt.Duration)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)
	assert.Equal(t, []string{"Session scheduled"}, f.pusher.sent)

	rfc, err := f.svc.Create(ctx, alice, models.AppointmentRequest{Title: "Later", Date: "2026-03-12T08:00:00Z", Duration: 60})
	require.NoError(t, err)
	assert.Equal(t, 60, rfc.Duration)

	_, err = f.svc.Create(ctx, alice, models.AppointmentRequest{Title: "Bad", Date: "2026-03-12", Time: "9am"})
	assert.Equal(t, "Invalid date or time", models.FieldErrors(err)["date"])
}

func TestAppointmentListOrderAndUpcoming(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t, time.UTC)

	for _, clock := range []string{"15:00", "09:00", "12:30"} {
		_, err := f.svc.Create(ctx, alice, models.AppointmentRequest{Title: clock, Date: "2026-03-11", Time: clock})
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, bob, models.AppointmentRequest{Title: "bob", Date: "2026-03-11", Time: "08:00"})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "09:00", list[0].Title)
	assert.Equal(t, "12:30", list[1].Title)
	assert.Equal(t, "15:00", list[2].Title)

	next, err := f.svc.Upcoming(ctx, alice, 2)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "09:00", next[0].Title)
}

func TestAppointmentUpdateAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newApptFixture(t, time.UTC)
	appt, err := f.svc.Create(ctx, alice, models.AppointmentRequest{Title: "Intro", Date: "2026-03-11", Time: "10:00"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, alice, appt.ID, models.AppointmentRequest{Title: "Intro", Date: "2026-03-01", Time: "10:00"})
	assert.Contains(t, models.FieldErrors(err), "date")

	updated, err := f.svc.Update(ctx, alice, appt.ID, models.AppointmentRequest{
		Title:    "Intro",
		Date:     "2026-03-12",
		Time:     "11:00",
		Duration: 45,
		Status:   models.AppointmentRescheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Duration)
	assert.Equal(t, models.AppointmentRescheduled, updated.Status)
	assert.Equal(t, "alice", updated.UserID)

	_, err = f.svc.Update(ctx, bob, appt.ID, models.AppointmentRequest{Title: "x", Date: "2026-03-12", Time: "11:00"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	assert.ErrorIs(t, f.svc.Cancel(ctx, alice, appt.ID, false), models.ErrConfirmationRequired)
	require.NoError(t, f.svc.Cancel(ctx, alice, appt.ID, true))
	_, err = f.svc.Get(ctx, alice, appt.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
