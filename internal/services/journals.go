package services

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"go.uber.org/zap"
)

type JournalService struct {
	repo store.JournalRepository
	opts Options
}

func NewJournalService(repo store.JournalRepository, opts Options) *JournalService {
	return &JournalService{repo: repo, opts: opts.withDefaults()}
}

// List returns the caller's entries, most recent first.
func (s *JournalService) List(ctx context.Context, id models.Identity) ([]models.JournalView, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByUser(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	models.SortJournals(entries)
	views := make([]models.JournalView, 0, len(entries))
	for _, e := range entries {
		views = append(views, models.NewJournalView(e))
	}
	return views, nil
}

func (s *JournalService) Get(ctx context.Context, id models.Identity, entryID string) (*models.JournalEntry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	entry, err := s.repo.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := owned(entry.UserID, id); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) Create(ctx context.Context, id models.Identity, in models.JournalInput) (*models.JournalEntry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	entry := models.JournalEntry{UserID: id.UID, Title: in.Title, Content: in.Content, Mood: in.Mood}
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.opts.Logger.Error("create journal entry failed", zap.String("user_id", id.UID), zap.Error(err))
		return nil, err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventJournalCreated, ID: entry.ID, Data: entry})
	return &entry, nil
}

// Update stamps UpdatedAt; entries that were never edited keep it nil.
func (s *JournalService) Update(ctx context.Context, id models.Identity, entryID string, in models.JournalInput) (*models.JournalEntry, error) {
	entry, err := s.Get(ctx, id, entryID)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.opts.Now()
	entry.Title, entry.Content, entry.Mood = in.Title, in.Content, in.Mood
	entry.UpdatedAt = &now
	if err := s.repo.Update(ctx, entry); err != nil {
		s.opts.Logger.Error("update journal entry failed", zap.String("entry_id", entry.ID), zap.Error(err))
		return nil, err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventJournalUpdated, ID: entry.ID, Data: entry})
	return entry, nil
}

func (s *JournalService) Delete(ctx context.Context, id models.Identity, entryID string, confirm bool) error {
	entry, err := s.Get(ctx, id, entryID)
	if err != nil {
		return err
	}
	if err := confirmed(confirm); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		return err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventJournalDeleted, ID: entry.ID})
	return nil
}

func (s *JournalService) Count(ctx context.Context, id models.Identity) (int, error) {
	if err := requireIdentity(id); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, id.UID)
}
