package services

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
)

type DashboardService struct {
	profiles     store.ProfileRepository
	goals        store.GoalRepository
	appointments store.AppointmentRepository
	journals     store.JournalRepository
	opts         Options
}

func NewDashboardService(s *store.Store, opts Options) *DashboardService {
	return &DashboardService{
		profiles:     s.Profiles,
		goals:        s.Goals,
		appointments: s.Appointments,
		journals:     s.Journals,
		opts:         opts.withDefaults(),
	}
}

func (s *DashboardService) Get(ctx context.Context, id models.Identity) (models.Dashboard, error) {
	if err := requireIdentity(id); err != nil {
		return models.Dashboard{}, err
	}
	now := s.opts.Now()

	var d models.Dashboard
	profile, err := s.profiles.Get(ctx, id.UID)
	switch {
	case err == nil:
		d.FirstName = profile.FirstName
		d.Streak = profile.Streak
	case models.HasCode(err, models.CodeNotFound):
		d.FirstName = models.NewProfile(id).FirstName
	default:
		return models.Dashboard{}, err
	}

	upcoming, err := s.appointments.ListUpcoming(ctx, id.UID, now, models.DashboardLimit)
	if err != nil {
		return models.Dashboard{}, err
	}
	d.UpcomingAppointments = models.UpcomingAppointments(upcoming, now, models.DashboardLimit)

	// The completion rate covers the recent goals shown, not the whole history.
	goals, err := s.goals.ListByUser(ctx, id.UID, models.DashboardLimit)
	if err != nil {
		return models.Dashboard{}, err
	}
	d.CompletionRate = models.CompletionRate(goals)
	d.RecentGoals = make([]models.GoalView, 0, len(goals))
	for _, g := range goals {
		d.RecentGoals = append(d.RecentGoals, models.NewGoalView(g, now))
	}

	if d.JournalEntries, err = s.journals.Count(ctx, id.UID); err != nil {
		return models.Dashboard{}, err
	}
	return d, nil
}
