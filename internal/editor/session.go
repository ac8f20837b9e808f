package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sprachvideo/backend/internal/apierr"
	"github.com/sprachvideo/backend/internal/logger"
	"github.com/sprachvideo/backend/internal/types"
)

// State is the editor lifecycle: loading -> ready -> saving -> saved.
// A failed save returns to ready with edits intact.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateSaving  State = "saving"
	StateSaved   State = "saved"
)

// TargetField addresses which media reference AttachMedia writes into.
type TargetField string

const (
	TargetThumbnail   TargetField = "thumbnail"
	TargetPhraseAudio TargetField = "phrase_audio"
	TargetVocabImage  TargetField = "vocab_image"
	TargetVocabAudio  TargetField = "vocab_audio"
)

// Target addresses one media reference field of the aggregate. Index is
// ignored for the thumbnail.
type Target struct {
	Field TargetField `json:"field"`
	Index int         `json:"index"`
}

var (
	ErrNotReady      = errors.New("editor session is not ready")
	ErrSaveInFlight  = errors.New("a save is already in flight")
	ErrInvalidTarget = errors.New("media target does not address an existing field")
	ErrUnknownField  = errors.New("unknown field path")
)

// Store is the slice of the topic service the session needs. Absence is
// apierr.ErrNotFound from Get, apierr.ErrStoreUnavailable when the backing
// store was never constructed.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*types.Topic, error)
	Create(ctx context.Context, topic *types.Topic) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, topic *types.Topic) error
}

// Uploader is the media gateway slice: returns the durable public URL.
type Uploader interface {
	Upload(ctx context.Context, category, filename string, size int64, file io.Reader) (string, error)
}

// Session holds one Topic aggregate under edit. All mutations happen
// in-memory until Save issues a single create-or-update. A mutex serializes
// operations so a late response cannot write into a torn-down or already
// saved session.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	topicID uuid.UUID // uuid.Nil means "new": Save creates with a store-assigned id
	state   State
	topic   types.Topic

	// Uploaded URLs not yet confirmed by a successful save. Kept so orphan
	// cleanup can be added without changing the eager-upload flow.
	pendingUploads []string

	notFound bool

	store    Store
	uploader Uploader
	log      *logger.Logger
	now      func() time.Time
}

func newSession(store Store, uploader Uploader, baseLog *logger.Logger) *Session {
	id := uuid.New()
	return &Session{
		id:       id,
		state:    StateLoading,
		store:    store,
		uploader: uploader,
		log:      baseLog.With("editor_session", id.String()),
		now:      time.Now,
	}
}

// loadOrInit hydrates the aggregate. "new" (uuid.Nil) goes straight to ready
// with a blank aggregate. A missing document degrades to a blank form with
// NotFound set rather than failing the session.
func (s *Session) loadOrInit(ctx context.Context, topicID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return apierr.ErrStoreUnavailable
	}
	if topicID == uuid.Nil {
		s.topic = types.EmptyTopic()
		s.state = StateReady
		return nil
	}
	topic, err := s.store.Get(ctx, topicID)
	if err != nil {
		if errors.Is(err, apierr.ErrStoreUnavailable) {
			return err
		}
		if !errors.Is(err, apierr.ErrNotFound) {
			s.log.Warn("Loading topic failed, rendering blank form", "error", err, "topic_id", topicID)
		}
		s.topic = types.EmptyTopic()
		s.notFound = true
		s.state = StateReady
		return nil
	}
	s.topicID = topicID
	s.topic = *topic
	s.state = StateReady
	return nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) TopicID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topicID
}

func (s *Session) NotFound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notFound
}

// Topic returns a deep copy of the aggregate under edit.
func (s *Session) Topic() types.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTopic(s.topic)
}

// PendingUploads lists uploaded media URLs not yet confirmed by a save.
func (s *Session) PendingUploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.pendingUploads))
	copy(out, s.pendingUploads)
	return out
}

// UpdateField replaces one scalar field. The aggregate value is rebuilt
// rather than mutated in place so snapshots taken before the call are
// unaffected.
func (s *Session) UpdateField(path, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}

	next := cloneTopic(s.topic)
	switch path {
	case "title":
		next.Title = value
	case "description":
		next.Description = value
	case "level":
		next.Level = types.Level(value)
	case "thumbnail":
		next.Thumbnail = value
	case "video.kind":
		ref := next.Video.Data()
		ref.Kind = types.VideoKind(value)
		next.Video = datatypes.NewJSONType(ref)
	case "video.location":
		ref := next.Video.Data()
		ref.Location = value
		next.Video = datatypes.NewJSONType(ref)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	s.topic = next
	return nil
}

func (s *Session) AppendPhrase() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	next := cloneTopic(s.topic)
	next.Phrases = append(next.Phrases, types.Phrase{})
	s.topic = next
	return nil
}

func (s *Session) AppendVocabulary() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	next := cloneTopic(s.topic)
	next.Vocabulary = append(next.Vocabulary, types.VocabularyEntry{})
	s.topic = next
	return nil
}

// UpdatePhraseField replaces one field of the phrase at index. Out-of-range
// indexes and unknown fields are silent no-ops; a client triggering either
// is a programming error, not a user-facing condition.
func (s *Session) UpdatePhraseField(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(s.topic.Phrases) {
		s.log.Debug("UpdatePhraseField index out of range", "index", index, "len", len(s.topic.Phrases))
		return nil
	}
	next := cloneTopic(s.topic)
	p := next.Phrases[index]
	switch field {
	case "sourceText":
		p.SourceText = value
	case "translatedText":
		p.TranslatedText = value
	case "audio":
		p.Audio = value
	default:
		s.log.Debug("UpdatePhraseField unknown field", "field", field)
		return nil
	}
	next.Phrases[index] = p
	s.topic = next
	return nil
}

func (s *Session) RemovePhrase(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(s.topic.Phrases) {
		s.log.Debug("RemovePhrase index out of range", "index", index, "len", len(s.topic.Phrases))
		return nil
	}
	next := cloneTopic(s.topic)
	next.Phrases = append(next.Phrases[:index], next.Phrases[index+1:]...)
	s.topic = next
	return nil
}

func (s *Session) UpdateVocabularyField(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(s.topic.Vocabulary) {
		s.log.Debug("UpdateVocabularyField index out of range", "index", index, "len", len(s.topic.Vocabulary))
		return nil
	}
	next := cloneTopic(s.topic)
	v := next.Vocabulary[index]
	switch field {
	case "word":
		v.Word = value
	case "article":
		v.Article = value
	case "image":
		v.Image = value
	case "audio":
		v.Audio = value
	default:
		s.log.Debug("UpdateVocabularyField unknown field", "field", field)
		return nil
	}
	next.Vocabulary[index] = v
	s.topic = next
	return nil
}

func (s *Session) RemoveVocabulary(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(s.topic.Vocabulary) {
		s.log.Debug("RemoveVocabulary index out of range", "index", index, "len", len(s.topic.Vocabulary))
		return nil
	}
	next := cloneTopic(s.topic)
	next.Vocabulary = append(next.Vocabulary[:index], next.Vocabulary[index+1:]...)
	s.topic = next
	return nil
}

// AttachMedia uploads the file eagerly and, on success, writes the returned
// URL into the addressed field. On upload failure the aggregate is left
// exactly as it was and the session stays ready.
func (s *Session) AttachMedia(ctx context.Context, target Target, category, filename string, size int64, file io.Reader) (string, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return "", ErrNotReady
	}
	if err := s.checkTarget(target); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.mu.Unlock()

	// Upload outside the lock; it is the slow part.
	url, err := s.uploader.Upload(ctx, category, filename, size, file)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: the sequence may have shifted while the upload ran.
	if s.state != StateReady {
		return "", ErrNotReady
	}
	if err := s.checkTarget(target); err != nil {
		return "", err
	}
	next := cloneTopic(s.topic)
	switch target.Field {
	case TargetThumbnail:
		next.Thumbnail = url
	case TargetPhraseAudio:
		next.Phrases[target.Index].Audio = url
	case TargetVocabImage:
		next.Vocabulary[target.Index].Image = url
	case TargetVocabAudio:
		next.Vocabulary[target.Index].Audio = url
	}
	s.topic = next
	s.pendingUploads = append(s.pendingUploads, url)
	return url, nil
}

// checkTarget must be called with the lock held.
func (s *Session) checkTarget(target Target) error {
	switch target.Field {
	case TargetThumbnail:
		return nil
	case TargetPhraseAudio:
		if target.Index < 0 || target.Index >= len(s.topic.Phrases) {
			return ErrInvalidTarget
		}
		return nil
	case TargetVocabImage, TargetVocabAudio:
		if target.Index < 0 || target.Index >= len(s.topic.Vocabulary) {
			return ErrInvalidTarget
		}
		return nil
	}
	return ErrInvalidTarget
}

// Save validates required fields, stamps updatedAt and issues one
// create-or-update. A failed write returns the session to ready without
// losing edits so the user can retry.
func (s *Session) Save(ctx context.Context) (uuid.UUID, error) {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return uuid.Nil, ErrSaveInFlight
	}
	if s.state != StateReady {
		s.mu.Unlock()
		return uuid.Nil, ErrNotReady
	}
	if missing := missingRequiredFields(s.topic); len(missing) > 0 {
		s.mu.Unlock()
		return uuid.Nil, &apierr.ValidationError{Missing: missing}
	}
	s.state = StateSaving
	toSave := cloneTopic(s.topic)
	toSave.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	targetID := s.topicID
	s.mu.Unlock()

	var savedID uuid.UUID
	var err error
	if targetID == uuid.Nil {
		savedID, err = s.store.Create(ctx, &toSave)
	} else {
		savedID = targetID
		err = s.store.Update(ctx, targetID, &toSave)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateReady
		var pErr *apierr.PersistError
		if errors.As(err, &pErr) || errors.Is(err, apierr.ErrStoreUnavailable) {
			return uuid.Nil, err
		}
		return uuid.Nil, &apierr.PersistError{Err: err}
	}
	toSave.ID = savedID
	s.topic = toSave
	s.topicID = savedID
	s.pendingUploads = nil
	s.state = StateSaved
	return savedID, nil
}

func missingRequiredFields(t types.Topic) []string {
	var missing []string
	if t.Title == "" {
		missing = append(missing, "title")
	}
	if t.Description == "" {
		missing = append(missing, "description")
	}
	if t.Video.Data().Location == "" {
		missing = append(missing, "video.location")
	}
	return missing
}

func cloneTopic(t types.Topic) types.Topic {
	out := t
	out.Phrases = make(datatypes.JSONSlice[types.Phrase], len(t.Phrases))
	copy(out.Phrases, t.Phrases)
	out.Vocabulary = make(datatypes.JSONSlice[types.VocabularyEntry], len(t.Vocabulary))
	copy(out.Vocabulary, t.Vocabulary)
	return out
}
