package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sprachvideo/backend/internal/editor"
	"github.com/sprachvideo/backend/internal/logger"
	"github.com/sprachvideo/backend/internal/types"
)

// EditorHandler exposes one editor session as a REST resource: open with a
// topic id (or "new"), mutate through operation endpoints, save once.
type EditorHandler struct {
	log     *logger.Logger
	manager *editor.Manager
}

func NewEditorHandler(log *logger.Logger, manager *editor.Manager) *EditorHandler {
	return &EditorHandler{
		log:     log.With("handler", "EditorHandler"),
		manager: manager,
	}
}

type sessionSnapshot struct {
	SessionID uuid.UUID    `json:"session_id"`
	TopicID   uuid.UUID    `json:"topic_id,omitempty"`
	State     editor.State `json:"state"`
	NotFound  bool         `json:"not_found"`
	Topic     types.Topic  `json:"topic"`
}

func snapshot(s *editor.Session) sessionSnapshot {
	return sessionSnapshot{
		SessionID: s.ID(),
		TopicID:   s.TopicID(),
		State:     s.State(),
		NotFound:  s.NotFound(),
		Topic:     s.Topic(),
	}
}

// OpenSession opens an editor for an existing topic or, with the literal id
// "new", a blank one.
func (h *EditorHandler) OpenSession(c *gin.Context) {
	var req struct {
		TopicID string `json:"topic_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	topicID := uuid.Nil
	if req.TopicID != "" && req.TopicID != "new" {
		parsed, err := uuid.Parse(req.TopicID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_topic_id", err)
			return
		}
		topicID = parsed
	}
	s, err := h.manager.Open(c.Request.Context(), topicID)
	if err != nil {
		h.log.Error("OpenSession failed", "error", err, "topic_id", topicID)
		RespondClassified(c, "open_editor_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) CloseSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	h.manager.Close(id)
	RespondOK(c, gin.H{"closed": id})
}

func (h *EditorHandler) UpdateField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Path  string `json:"path"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if err := s.UpdateField(req.Path, req.Value); err != nil {
		RespondError(c, http.StatusBadRequest, "update_field_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) AppendPhrase(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.AppendPhrase(); err != nil {
		RespondError(c, http.StatusConflict, "append_phrase_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) UpdatePhraseField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if err := s.UpdatePhraseField(index, req.Field, req.Value); err != nil {
		RespondError(c, http.StatusConflict, "update_phrase_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) RemovePhrase(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}
	if err := s.RemovePhrase(index); err != nil {
		RespondError(c, http.StatusConflict, "remove_phrase_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) AppendVocabulary(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.AppendVocabulary(); err != nil {
		RespondError(c, http.StatusConflict, "append_vocabulary_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) UpdateVocabularyField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if err := s.UpdateVocabularyField(index, req.Field, req.Value); err != nil {
		RespondError(c, http.StatusConflict, "update_vocabulary_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

func (h *EditorHandler) RemoveVocabulary(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.index(c)
	if !ok {
		return
	}
	if err := s.RemoveVocabulary(index); err != nil {
		RespondError(c, http.StatusConflict, "remove_vocabulary_failed", err)
		return
	}
	RespondOK(c, snapshot(s))
}

// AttachMedia takes a multipart form: "file" plus "target" (thumbnail,
// phrase_audio, vocab_image, vocab_audio), "index" and "category" (audio or
// image). The upload happens now; the URL lands in the addressed field.
func (h *EditorHandler) AttachMedia(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	target := editor.Target{Field: editor.TargetField(c.PostForm("target"))}
	if idx := c.PostForm("index"); idx != "" {
		parsed, err := strconv.Atoi(idx)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_index", err)
			return
		}
		target.Index = parsed
	}
	category := c.PostForm("category")

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	url, err := s.AttachMedia(c.Request.Context(), target, category, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.log.Warn("AttachMedia failed", "error", err, "session_id", s.ID())
		switch {
		case errors.Is(err, editor.ErrInvalidTarget):
			RespondError(c, http.StatusBadRequest, "invalid_media_target", err)
		case errors.Is(err, editor.ErrNotReady):
			RespondError(c, http.StatusConflict, "attach_media_failed", err)
		default:
			RespondClassified(c, "attach_media_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"url": url, "session": snapshot(s)})
}

func (h *EditorHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := s.Save(c.Request.Context())
	if err != nil {
		h.log.Warn("Save failed", "error", err, "session_id", s.ID())
		if errors.Is(err, editor.ErrSaveInFlight) || errors.Is(err, editor.ErrNotReady) {
			RespondError(c, http.StatusConflict, "save_failed", err)
			return
		}
		RespondClassified(c, "save_failed", err)
		return
	}
	RespondOK(c, gin.H{"topic_id": id, "state": s.State()})
}

func (h *EditorHandler) session(c *gin.Context) (*editor.Session, bool) {
	id, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return nil, false
	}
	s, err := h.manager.Get(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "session_not_found", err)
		return nil, false
	}
	return s, true
}

func (h *EditorHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_index", err)
		return 0, false
	}
	return index, true
}
