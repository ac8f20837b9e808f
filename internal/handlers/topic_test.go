package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
	"github.com/sprachvideo/backend/internal/types"
)

type fakeTopicService struct {
	topics  []*types.Topic
	listErr error
	deleted []uuid.UUID
}

func (f *fakeTopicService) List(ctx context.Context) ([]*types.Topic, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.topics, nil
}

func (f *fakeTopicService) Get(ctx context.Context, id uuid.UUID) (*types.Topic, error) {
	for _, t := range f.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apierr.ErrNotFound
}

func (f *fakeTopicService) Create(ctx context.Context, topic *types.Topic) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not used")
}

func (f *fakeTopicService) Update(ctx context.Context, id uuid.UUID, topic *types.Topic) error {
	return errors.New("not used")
}

func (f *fakeTopicService) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTopicRouter(svc *fakeTopicService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTopicHandler(logger.NewNop(), svc)
	r := gin.New()
	r.GET("/api/topics", h.ListTopics)
	r.GET("/api/topics/:id", h.GetTopic)
	r.DELETE("/api/topics/:id", h.DeleteTopic)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListTopicsEmptyStateIsExplicitList(t *testing.T) {
	r := newTopicRouter(&fakeTopicService{})
	w := doRequest(t, r, http.MethodGet, "/api/topics")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"topics":[]`) {
		t.Fatalf("empty catalog must render [], got %s", w.Body.String())
	}
}

func TestListTopicsRendersSummaries(t *testing.T) {
	topic := types.EmptyTopic()
	topic.ID = uuid.New()
	topic.Title = "Ordering Coffee"
	topic.Level = types.LevelIntermediate
	svc := &fakeTopicService{topics: []*types.Topic{&topic}}

	w := doRequest(t, newTopicRouter(svc), http.MethodGet, "/api/topics")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var body struct {
		Topics []struct {
			ID    uuid.UUID `json:"id"`
			Title string    `json:"title"`
			Level string    `json:"level"`
		} `json:"topics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Topics) != 1 {
		t.Fatalf("topics: want=1 got=%d", len(body.Topics))
	}
	if body.Topics[0].Title != "Ordering Coffee" || body.Topics[0].Level != "intermediate" {
		t.Fatalf("summary mismatch: %+v", body.Topics[0])
	}
}

func TestListTopicsStoreUnavailableIs503(t *testing.T) {
	svc := &fakeTopicService{listErr: apierr.ErrStoreUnavailable}
	w := doRequest(t, newTopicRouter(svc), http.MethodGet, "/api/topics")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=503 got=%d", w.Code)
	}
}

func TestGetTopicResolvesHostedLinkToEmbedURL(t *testing.T) {
	topic := types.EmptyTopic()
	topic.ID = uuid.New()
	topic.Video = datatypes.NewJSONType(types.VideoRef{
		Kind:     types.VideoKindHostedLink,
		Location: "https://youtu.be/abc123",
	})
	svc := &fakeTopicService{topics: []*types.Topic{&topic}}

	w := doRequest(t, newTopicRouter(svc), http.MethodGet, "/api/topics/"+topic.ID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var body struct {
		EmbedURL string `json:"embed_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.EmbedURL != "https://www.youtube.com/embed/abc123" {
		t.Fatalf("embed_url: got %q", body.EmbedURL)
	}
}

func TestGetTopicUnknownIDIs404(t *testing.T) {
	w := doRequest(t, newTopicRouter(&fakeTopicService{}), http.MethodGet, "/api/topics/"+uuid.NewString())
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d", w.Code)
	}
}

func TestGetTopicMalformedIDIs400(t *testing.T) {
	w := doRequest(t, newTopicRouter(&fakeTopicService{}), http.MethodGet, "/api/topics/not-a-uuid")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}

func TestDeleteTopicReachesService(t *testing.T) {
	svc := &fakeTopicService{}
	id := uuid.New()
	w := doRequest(t, newTopicRouter(svc), http.MethodDelete, "/api/topics/"+id.String())
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("deleted ids: %v", svc.deleted)
	}
}
