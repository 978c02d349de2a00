package services

import (
	"context"
	"testing"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	s := mem.Store()
	opts := Options{Now: fixedClock(testNow)}

	profile := models.Profile{UID: alice.UID, FirstName: "Alice", Streak: 4}
	_, err := s.Profiles.CreateIfAbsent(ctx, &profile)
	require.NoError(t, err)

	goals := NewGoalService(s.Goals, nil, opts)
	var ids []string
	for i := 0; i < 4; i++ {
		g, err := goals.Create(ctx, alice, goalInput("a"))
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}
	// ids[0] is older than the three recent goals and must not count.
	for _, i := range []int{0, 3} {
		_, err = goals.SetCompleted(ctx, alice, ids[i], true)
		require.NoError(t, err)
	}

	appts := NewAppointmentService(s.Appointments, nil, opts)
	for _, clock := range []string{"10:00", "11:00", "12:00", "13:00"} {
		_, err := appts.Create(ctx, alice, models.AppointmentRequest{Title: clock, Date: "2026-03-11", Time: clock})
		require.NoError(t, err)
	}
	_, err = NewJournalService(s.Journals, opts).Create(ctx, alice, models.JournalInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	d, err := NewDashboardService(s, opts).Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", d.FirstName)
	assert.Equal(t, 4, d.Streak)
	require.Len(t, d.UpcomingAppointments, 3)
	assert.Equal(t, "10:00", d.UpcomingAppointments[0].Title)
	require.Len(t, d.RecentGoals, 3)
	assert.Equal(t, ids[3], d.RecentGoals[0].ID)
	assert.Equal(t, 33, d.CompletionRate)
	assert.Equal(t, 1, d.JournalEntries)
}

func TestDashboardWithoutProfile(t *testing.T) {
	mem := newMemStore()
	d, err := NewDashboardService(mem.Store(), Options{Now: fixedClock(testNow)}).Get(context.Background(),
		models.Identity{UID: "carol", DisplayName: "Carol King"})
	require.NoError(t, err)
	assert.Equal(t, "Carol", d.FirstName)
	assert.Empty(t, d.RecentGoals)
	assert.Empty(t, d.UpcomingAppointments)
	assert.Zero(t, d.CompletionRate)
}
