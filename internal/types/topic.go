package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type VideoKind string

const (
	VideoKindHostedLink   VideoKind = "hosted_link"
	VideoKindUploadedFile VideoKind = "uploaded_file"
)

// VideoRef points at the topic's video. For hosted_link the location is a
// platform URL in any of the accepted shapes; for uploaded_file it is a
// directly playable media URL.
type VideoRef struct {
	Kind     VideoKind `json:"kind"`
	Location string    `json:"location"`
}

// Phrase is a paired source/translated sentence with optional pronunciation
// audio. Phrases have no identity of their own; position in the parent's
// sequence is the identity.
type Phrase struct {
	SourceText     string `json:"sourceText"`
	TranslatedText string `json:"translatedText"`
	Audio          string `json:"audio"`
}

// VocabularyEntry is a single word with its grammatical article and optional
// image and audio references. Positional identity, like Phrase.
type VocabularyEntry struct {
	Word    string `json:"word"`
	Article string `json:"article"` // "", "der", "die" or "das"
	Image   string `json:"image"`
	Audio   string `json:"audio"`
}

// Topic is the aggregate root. The whole body is written on every save;
// phrases and vocabulary are embedded jsonb, not joined rows, so the
// persisted shape matches the document the viewer consumes.
//
// Media reference fields (Thumbnail, Phrase.Audio, VocabularyEntry.Image,
// VocabularyEntry.Audio) default to "" and are only populated after a
// successful upload; "" means absent, not broken.
type Topic struct {
	ID          uuid.UUID                             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string                                `gorm:"column:title;not null" json:"title"`
	Description string                                `gorm:"column:description;not null" json:"description"`
	Level       Level                                 `gorm:"column:level;not null;default:'basic'" json:"level"`
	Thumbnail   string                                `gorm:"column:thumbnail" json:"thumbnail"`
	Video       datatypes.JSONType[VideoRef]          `gorm:"column:video;type:jsonb" json:"video"`
	Phrases     datatypes.JSONSlice[Phrase]           `gorm:"column:phrases;type:jsonb" json:"phrases"`
	Vocabulary  datatypes.JSONSlice[VocabularyEntry]  `gorm:"column:vocabulary;type:jsonb" json:"vocabulary"`
	UpdatedAt   string                                `gorm:"column:updated_at" json:"updatedAt"`
}

func (Topic) TableName() string {
	return "topic"
}

// EmptyTopic is the blank aggregate the editor starts from in "new" mode.
func EmptyTopic() Topic {
	return Topic{
		Level:      LevelBasic,
		Video:      datatypes.NewJSONType(VideoRef{Kind: VideoKindHostedLink}),
		Phrases:    datatypes.JSONSlice[Phrase]{},
		Vocabulary: datatypes.JSONSlice[VocabularyEntry]{},
	}
}
