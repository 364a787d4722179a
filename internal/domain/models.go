// Package domain defines the persistence models of the stylist backend:
// chats, their messages, the owner's style profile, and feedback on
// assistant replies. The types are mapped with GORM.
package domain

import (
	"time"
)

// Message roles. The database enforces the same set with a CHECK constraint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultChatTitle is used when a chat is created without a title.
const DefaultChatTitle = "Fashion Chat"

// Chat is a styling conversation owned by a user.
//
// Archiving is a soft delete: the row and its messages stay, Archived is set
// and ArchivedAt records when. Restoring clears both. UpdatedAt is bumped on
// every completed turn so active chats sort by recency.
type Chat struct {
	ID         string     `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string     `json:"user_id"     gorm:"type:varchar(64);not null;index:idx_user_chats,priority:1"`
	Title      string     `json:"title"       gorm:"type:varchar(255);not null;default:'Fashion Chat'"`
	Archived   bool       `json:"archived"    gorm:"not null;default:false;index:idx_user_chats,priority:2"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "fashion_chats" }

// Message is one immutable utterance in a chat. Assistant messages may carry
// the URL of an image shown alongside the advice (a try-on, a generated
// outfit, or the picture the user sent).
type Message struct {
	ID        string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	ChatID    string    `json:"chat_id"             gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string    `json:"role"                gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string    `json:"content"             gorm:"type:text;not null"`
	ImageURL  *string   `json:"image_url,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"          gorm:"index:idx_chat_msgs,priority:2"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "fashion_messages" }

// UserProfile holds the physical and style attributes a user entered in the
// profile wizard. The chat turn only reads it; numeric fields are optional.
type UserProfile struct {
	ID                   string     `json:"id"                               gorm:"type:char(36);primaryKey"`
	UserID               string     `json:"user_id"                          gorm:"type:varchar(64);not null;uniqueIndex"`
	FullName             string     `json:"full_name"                        gorm:"type:varchar(255)"`
	Height               *float64   `json:"height,omitempty"`                // centimetres
	Weight               *float64   `json:"weight,omitempty"`                // kilograms
	BodyType             string     `json:"body_type"                        gorm:"type:varchar(64)"`
	SkinTone             string     `json:"skin_tone"                        gorm:"type:varchar(64)"`
	SkinType             string     `json:"skin_type"                        gorm:"type:varchar(64)"`
	ScalpType            string     `json:"scalp_type"                       gorm:"type:varchar(64)"`
	HairTexture          string     `json:"hair_texture"                     gorm:"type:varchar(64)"`
	Location             string     `json:"location"                         gorm:"type:varchar(255)"`
	Bio                  string     `json:"bio"                              gorm:"type:text"`
	AvatarURL            string     `json:"avatar_url"                       gorm:"type:text"`
	BirthDate            *time.Time `json:"birth_date,omitempty"`
	StyleConfidenceLevel *int       `json:"style_confidence_level,omitempty" gorm:"check:style_confidence_level IS NULL OR style_confidence_level BETWEEN 1 AND 10"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "user_profiles" }

// Feedback is a thumbs up (+1) or down (-1) on an assistant reply. One entry
// per user per message.
type Feedback struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	MessageID string    `json:"message_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_feedback_message_user"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index;uniqueIndex:ux_feedback_message_user"`
	Value     int       `json:"value"      gorm:"not null;check:value IN (-1,1)"`
	CreatedAt time.Time `json:"created_at"`

	Message Message `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "message_feedback" }

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{&Chat{}, &Message{}, &UserProfile{}, &Feedback{}, &Idempotency{}}
}
