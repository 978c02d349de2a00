package services

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"go.uber.org/zap"
)

type GoalService struct {
	repo     store.GoalRepository
	notifier *Notifier
	opts     Options
}

func NewGoalService(repo store.GoalRepository, notifier *Notifier, opts Options) *GoalService {
	return &GoalService{repo: repo, notifier: notifier, opts: opts.withDefaults()}
}

type GoalList struct {
	Goals   []models.GoalView  `json:"goals"`
	Summary models.GoalSummary `json:"summary"`
}

// List returns the caller's goals matching filter, newest first, plus the
// per-status counts and category tally over all of them.
func (s *GoalService) List(ctx context.Context, id models.Identity, filter string) (GoalList, error) {
	if err := requireIdentity(id); err != nil {
		return GoalList{}, err
	}
	if !models.IsValidGoalFilter(filter) {
		var v models.Validation
		v.Add("filter", "Filter must be all, active, completed or overdue")
		return GoalList{}, v.Err()
	}
	goals, err := s.repo.ListByUser(ctx, id.UID, 0)
	if err != nil {
		return GoalList{}, err
	}

	now := s.opts.Now()
	filtered := models.FilterGoals(goals, filter, now)
	views := make([]models.GoalView, 0, len(filtered))
	for _, g := range filtered {
		views = append(views, models.NewGoalView(g, now))
	}
	return GoalList{Goals: views, Summary: models.SummarizeGoals(goals, now)}, nil
}

func (s *GoalService) Get(ctx context.Context, id models.Identity, goalID string) (*models.Goal, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	goal, err := s.repo.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := owned(goal.UserID, id); err != nil {
		return nil, err
	}
	return goal, nil
}

// Create validates before any write; a goal needs at least one task.
func (s *GoalService) Create(ctx context.Context, id models.Identity, in models.GoalInput) (*models.Goal, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(s.opts.Now(), models.CreateGoalRules); err != nil {
		return nil, err
	}

	goal := models.NewGoal(id.UID, in)
	if err := s.repo.Create(ctx, &goal); err != nil {
		s.opts.Logger.Error("create goal failed", zap.String("user_id", id.UID), zap.Error(err))
		return nil, err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventGoalCreated, ID: goal.ID, Data: goal})
	return &goal, nil
}

// Update replaces the editable fields. Tasks may be emptied here, and the
// due date is only checked against today when it moves.
func (s *GoalService) Update(ctx context.Context, id models.Identity, goalID string, in models.GoalInput) (*models.Goal, error) {
	goal, err := s.Get(ctx, id, goalID)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	rules := models.GoalRules{CheckDueDate: goal.DueDateChanged(in)}
	if err := in.Validate(s.opts.Now(), rules); err != nil {
		return nil, err
	}

	goal.Apply(in)
	return s.save(ctx, id, goal)
}

// ToggleTask flips one task and persists the recomputed progress in the same write.
func (s *GoalService) ToggleTask(ctx context.Context, id models.Identity, goalID string, index int) (*models.Goal, error) {
	goal, err := s.Get(ctx, id, goalID)
	if err != nil {
		return nil, err
	}
	if err := goal.ToggleTask(index); err != nil {
		return nil, err
	}
	return s.save(ctx, id, goal)
}

func (s *GoalService) ToggleMilestone(ctx context.Context, id models.Identity, goalID string, index int) (*models.Goal, error) {
	goal, err := s.Get(ctx, id, goalID)
	if err != nil {
		return nil, err
	}
	if err := goal.ToggleMilestone(index); err != nil {
		return nil, err
	}
	return s.save(ctx, id, goal)
}

// SetCompleted sets the stored completed flag. Progress is left alone.
func (s *GoalService) SetCompleted(ctx context.Context, id models.Identity, goalID string, completed bool) (*models.Goal, error) {
	goal, err := s.Get(ctx, id, goalID)
	if err != nil {
		return nil, err
	}
	wasCompleted := goal.Completed
	goal.Completed = completed
	saved, err := s.save(ctx, id, goal)
	if err != nil {
		return nil, err
	}
	if completed && !wasCompleted && s.notifier != nil {
		s.notifier.Notify(ctx, id.UID, models.NotifyGoalCompleted,
			"Goal completed", "You completed \""+saved.Title+"\". Great work!",
			map[string]string{"goalId": saved.ID})
	}
	return saved, nil
}

func (s *GoalService) Delete(ctx context.Context, id models.Identity, goalID string, confirm bool) error {
	goal, err := s.Get(ctx, id, goalID)
	if err != nil {
		return err
	}
	if err := confirmed(confirm); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, goal.ID); err != nil {
		return err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventGoalDeleted, ID: goal.ID})
	return nil
}

func (s *GoalService) Templates() []models.GoalTemplate {
	return models.GoalTemplates
}

// WizardResult is the wizard state after an action, plus the goal once submitted.
type WizardResult struct {
	Wizard models.Wizard `json:"wizard"`
	Goal   *models.Goal  `json:"goal,omitempty"`
}

// Wizard applies one action to a client-held wizard state.
func (s *GoalService) Wizard(ctx context.Context, id models.Identity, req models.WizardRequest) (WizardResult, error) {
	if err := requireIdentity(id); err != nil {
		return WizardResult{}, err
	}
	w := req.Wizard
	if w.Step == "" {
		w = models.NewWizard()
	}
	if !w.Step.Valid() {
		return WizardResult{}, models.NewError(models.CodeInvalid, "unknown wizard step")
	}

	now := s.opts.Now()
	switch req.Action {
	case models.WizardNext:
		if err := w.Next(now); err != nil {
			return WizardResult{}, err
		}
	case models.WizardBack:
		if err := w.Back(); err != nil {
			return WizardResult{}, err
		}
	case models.WizardTemplate:
		t, ok := models.FindTemplate(req.TemplateID)
		if !ok {
			return WizardResult{}, models.NewError(models.CodeNotFound, "template not found")
		}
		w.ApplyTemplate(t, now)
	case models.WizardSubmit:
		in, err := w.Submit(now)
		if err != nil {
			return WizardResult{}, err
		}
		goal, err := s.Create(ctx, id, in)
		if err != nil {
			return WizardResult{}, err
		}
		return WizardResult{Wizard: w, Goal: goal}, nil
	default:
		return WizardResult{}, models.NewError(models.CodeInvalid, "action must be next, back, template or submit")
	}
	return WizardResult{Wizard: w}, nil
}

func (s *GoalService) save(ctx context.Context, id models.Identity, goal *models.Goal) (*models.Goal, error) {
	goal.Recompute()
	if err := s.repo.Update(ctx, goal); err != nil {
		s.opts.Logger.Error("update goal failed", zap.String("goal_id", goal.ID), zap.Error(err))
		return nil, err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventGoalUpdated, ID: goal.ID, Data: goal})
	return goal, nil
}
