package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/arnold/coachly-api/internal/models"
)

type goalRepo struct {
	client *firestore.Client
}

// setGoalID also restores empty task and milestone lists a decode left nil.
func setGoalID(g *models.Goal, id string) {
	g.ID = id
	g.Recompute()
}

func (r *goalRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colGoals)
}

func (r *goalRepo) Create(ctx context.Context, goal *models.Goal) error {
	goal.Recompute()
	goal.CreatedAt, goal.UpdatedAt = time.Time{}, time.Time{}

	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, goal); err != nil {
		return mapErr(err)
	}
	stored, err := get(ctx, ref, setGoalID)
	if err != nil {
		return err
	}
	*goal = *stored
	return nil
}

func (r *goalRepo) Get(ctx context.Context, id string) (*models.Goal, error) {
	return get(ctx, r.col().Doc(id), setGoalID)
}

func (r *goalRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Goal, error) {
	q := r.col().Where("userId", "==", userID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(snaps, setGoalID)
}

// Update merges the mutable fields and reloads the document so goal carries
// the server-assigned updatedAt. It fails with ErrNotFound for a missing document.
func (r *goalRepo) Update(ctx context.Context, goal *models.Goal) error {
	goal.Recompute()
	ref := r.col().Doc(goal.ID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "title", Value: goal.Title},
		{Path: "description", Value: goal.Description},
		{Path: "category", Value: goal.Category},
		{Path: "priority", Value: goal.Priority},
		{Path: "dueDate", Value: goal.DueDate},
		{Path: "tasks", Value: goal.Tasks},
		{Path: "milestones", Value: goal.Milestones},
		{Path: "smart", Value: goal.Smart},
		{Path: "reminder", Value: goal.Reminder},
		{Path: "progress", Value: goal.Progress},
		{Path: "completed", Value: goal.Completed},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return mapErr(err)
	}
	stored, err := get(ctx, ref, setGoalID)
	if err != nil {
		return err
	}
	*goal = *stored
	return nil
}

func (r *goalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	return mapErr(err)
}
