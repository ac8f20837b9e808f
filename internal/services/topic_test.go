package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
	"github.com/sprachvideo/backend/internal/types"
)

type fakeTopicRepo struct {
	topics  map[uuid.UUID]*types.Topic
	failAll bool
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: map[uuid.UUID]*types.Topic{}}
}

func (f *fakeTopicRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
	if f.failAll {
		return nil, errors.New("connection refused")
	}
	out := []*types.Topic{}
	for _, t := range f.topics {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error) {
	if f.failAll {
		return nil, errors.New("connection refused")
	}
	return f.topics[id], nil
}

func (f *fakeTopicRepo) CreateWithAutoID(ctx context.Context, tx *gorm.DB, topic *types.Topic) (uuid.UUID, error) {
	if f.failAll {
		return uuid.Nil, errors.New("connection refused")
	}
	id := uuid.New()
	stored := *topic
	stored.ID = id
	f.topics[id] = &stored
	return id, nil
}

func (f *fakeTopicRepo) UpdateByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, topic *types.Topic) error {
	if f.failAll {
		return errors.New("connection refused")
	}
	if _, ok := f.topics[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *topic
	stored.ID = id
	f.topics[id] = &stored
	return nil
}

func (f *fakeTopicRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if f.failAll {
		return errors.New("connection refused")
	}
	delete(f.topics, id)
	return nil
}

func newTestTopicService(repo *fakeTopicRepo) TopicService {
	return NewTopicService(&gorm.DB{}, logger.NewNop(), repo)
}

func TestTopicGetAbsenceIsNotFound(t *testing.T) {
	svc := newTestTopicService(newFakeTopicRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestTopicCreateThenGet(t *testing.T) {
	svc := newTestTopicService(newFakeTopicRepo())
	topic := types.EmptyTopic()
	topic.Title = "Ordering Coffee"

	id, err := svc.Create(context.Background(), &topic)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Ordering Coffee" {
		t.Fatalf("title: got %q", got.Title)
	}
}

func TestTopicWriteFailuresWrapAsPersistError(t *testing.T) {
	repo := newFakeTopicRepo()
	repo.failAll = true
	svc := newTestTopicService(repo)
	topic := types.EmptyTopic()

	var pErr *apierr.PersistError
	if _, err := svc.Create(context.Background(), &topic); !errors.As(err, &pErr) {
		t.Fatalf("Create: want PersistError, got %v", err)
	}
	if err := svc.Update(context.Background(), uuid.New(), &topic); !errors.As(err, &pErr) {
		t.Fatalf("Update: want PersistError, got %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New()); !errors.As(err, &pErr) {
		t.Fatalf("Delete: want PersistError, got %v", err)
	}
}

func TestTopicServiceWithoutStoreDegrades(t *testing.T) {
	svc := NewTopicService(nil, logger.NewNop(), nil)
	topic := types.EmptyTopic()

	if _, err := svc.List(context.Background()); !errors.Is(err, apierr.ErrStoreUnavailable) {
		t.Fatalf("List: want ErrStoreUnavailable, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, apierr.ErrStoreUnavailable) {
		t.Fatalf("Get: want ErrStoreUnavailable, got %v", err)
	}
	if _, err := svc.Create(context.Background(), &topic); !errors.Is(err, apierr.ErrStoreUnavailable) {
		t.Fatalf("Create: want ErrStoreUnavailable, got %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, apierr.ErrStoreUnavailable) {
		t.Fatalf("Delete: want ErrStoreUnavailable, got %v", err)
	}
}
