package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/sprachvideo/backend/internal/logger"
  "github.com/sprachvideo/backend/internal/types"
)

// TopicRepo persists Topic aggregates. GetByID reports absence as (nil, nil)
// rather than an error; callers decide whether absence matters.
type TopicRepo interface {
  ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error)
  CreateWithAutoID(ctx context.Context, tx *gorm.DB, topic *types.Topic) (uuid.UUID, error)
  UpdateByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, topic *types.Topic) error
  DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type topicRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
  repoLog := baseLog.With("repo", "TopicRepo")
  return &topicRepo{db: db, log: repoLog}
}

func (r *topicRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  results := []*types.Topic{}
  if err := transaction.WithContext(ctx).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Topic
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *topicRepo) CreateWithAutoID(ctx context.Context, tx *gorm.DB, topic *types.Topic) (uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if topic.ID == uuid.Nil {
    topic.ID = uuid.New()
  }
  if err := transaction.WithContext(ctx).Create(topic).Error; err != nil {
    return uuid.Nil, err
  }
  return topic.ID, nil
}

func (r *topicRepo) UpdateByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, topic *types.Topic) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  // Whole-aggregate overwrite; the editor never patches individual fields
  // at the protocol level.
  res := transaction.WithContext(ctx).
    Model(&types.Topic{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{
      "title":       topic.Title,
      "description": topic.Description,
      "level":       topic.Level,
      "thumbnail":   topic.Thumbnail,
      "video":       topic.Video,
      "phrases":     topic.Phrases,
      "vocabulary":  topic.Vocabulary,
      "updated_at":  topic.UpdatedAt,
    })
  if res.Error != nil {
    return res.Error
  }
  if res.RowsAffected == 0 {
    return gorm.ErrRecordNotFound
  }
  return nil
}

func (r *topicRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  // Deleting an already-absent id is not an error.
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Topic{}).Error; err != nil {
    return err
  }
  return nil
}
