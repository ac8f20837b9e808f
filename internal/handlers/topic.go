package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sprachvideo/backend/internal/logger"
	"github.com/sprachvideo/backend/internal/services"
	"github.com/sprachvideo/backend/internal/types"
	"github.com/sprachvideo/backend/internal/video"
)

type TopicHandler struct {
	log          *logger.Logger
	topicService services.TopicService
}

func NewTopicHandler(log *logger.Logger, topicService services.TopicService) *TopicHandler {
	return &TopicHandler{
		log:          log.With("handler", "TopicHandler"),
		topicService: topicService,
	}
}

type topicListItem struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Level       types.Level `json:"level"`
	Thumbnail   string      `json:"thumbnail"`
	UpdatedAt   string      `json:"updatedAt"`
}

// ListTopics backs both the public catalog and the admin list view. An empty
// collection renders as an explicit empty list, not null.
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics, err := h.topicService.List(c.Request.Context())
	if err != nil {
		h.log.Error("ListTopics failed", "error", err)
		RespondClassified(c, "load_topics_failed", err)
		return
	}
	items := make([]topicListItem, 0, len(topics))
	for _, t := range topics {
		items = append(items, topicListItem{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Level:       t.Level,
			Thumbnail:   t.Thumbnail,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	RespondOK(c, gin.H{"topics": items})
}

// GetTopic returns the full aggregate for the viewer, with the hosted-link
// location resolved to an embeddable player URL when it is recognizable.
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_topic_id", err)
		return
	}
	topic, err := h.topicService.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Error("GetTopic failed", "error", err, "topic_id", id)
		RespondClassified(c, "load_topic_failed", err)
		return
	}
	payload := gin.H{"topic": topic}
	ref := topic.Video.Data()
	if ref.Kind == types.VideoKindHostedLink {
		if vid := video.ExtractYouTubeID(ref.Location); vid != "" {
			payload["embed_url"] = video.EmbedURL(vid)
		}
	}
	RespondOK(c, payload)
}

// DeleteTopic removes one topic. Deleting an already-absent id succeeds; the
// list view removes the row optimistically either way.
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_topic_id", err)
		return
	}
	if err := h.topicService.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("DeleteTopic failed", "error", err, "topic_id", id)
		RespondClassified(c, "delete_topic_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
