package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
	"github.com/sprachvideo/backend/internal/repos"
	"github.com/sprachvideo/backend/internal/types"
)

// TopicService is the aggregate store boundary the list view and editor talk
// to. Get reports absence via apierr.ErrNotFound; write failures come back
// as apierr.PersistError.
type TopicService interface {
	List(ctx context.Context) ([]*types.Topic, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Topic, error)
	Create(ctx context.Context, topic *types.Topic) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, topic *types.Topic) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type topicService struct {
	db        *gorm.DB
	log       *logger.Logger
	topicRepo repos.TopicRepo
}

func NewTopicService(db *gorm.DB, baseLog *logger.Logger, topicRepo repos.TopicRepo) TopicService {
	serviceLog := baseLog.With("service", "TopicService")
	return &topicService{db: db, log: serviceLog, topicRepo: topicRepo}
}

func (ts *topicService) available() error {
	if ts.db == nil || ts.topicRepo == nil {
		return apierr.ErrStoreUnavailable
	}
	return nil
}

func (ts *topicService) List(ctx context.Context) ([]*types.Topic, error) {
	if err := ts.available(); err != nil {
		return nil, err
	}
	topics, err := ts.topicRepo.ListAll(ctx, nil)
	if err != nil {
		ts.log.Error("List topics failed", "error", err)
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (ts *topicService) Get(ctx context.Context, id uuid.UUID) (*types.Topic, error) {
	if err := ts.available(); err != nil {
		return nil, err
	}
	topic, err := ts.topicRepo.GetByID(ctx, nil, id)
	if err != nil {
		ts.log.Error("Get topic failed", "error", err, "topic_id", id)
		return nil, fmt.Errorf("get topic: %w", err)
	}
	if topic == nil {
		return nil, apierr.ErrNotFound
	}
	return topic, nil
}

func (ts *topicService) Create(ctx context.Context, topic *types.Topic) (uuid.UUID, error) {
	if err := ts.available(); err != nil {
		return uuid.Nil, err
	}
	id, err := ts.topicRepo.CreateWithAutoID(ctx, nil, topic)
	if err != nil {
		ts.log.Error("Create topic failed", "error", err)
		return uuid.Nil, &apierr.PersistError{Err: err}
	}
	return id, nil
}

func (ts *topicService) Update(ctx context.Context, id uuid.UUID, topic *types.Topic) error {
	if err := ts.available(); err != nil {
		return err
	}
	// Not-found on update is store-dependent; callers treat it as a
	// persist failure either way.
	if err := ts.topicRepo.UpdateByID(ctx, nil, id, topic); err != nil {
		ts.log.Error("Update topic failed", "error", err, "topic_id", id)
		return &apierr.PersistError{Err: err}
	}
	return nil
}

func (ts *topicService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ts.available(); err != nil {
		return err
	}
	if err := ts.topicRepo.DeleteByID(ctx, nil, id); err != nil {
		ts.log.Error("Delete topic failed", "error", err, "topic_id", id)
		return &apierr.PersistError{Err: err}
	}
	return nil
}
