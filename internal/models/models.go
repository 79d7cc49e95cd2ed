package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Enums
type RenderStatus string

const (
	RenderStatusPending   RenderStatus = "pending"
	RenderStatusRendering RenderStatus = "rendering"
	RenderStatusCompleted RenderStatus = "completed"
	RenderStatusFailed    RenderStatus = "failed"
)

type VideoStatus string

const (
	VideoStatusDraft      VideoStatus = "draft"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// StringList is a custom type for PostgreSQL JSONB columns holding string
// arrays (reference image URLs).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Models

type Project struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Script    string    `json:"script"`
	Language  string    `json:"language"` // UI locale hint: "en-IN", "hi-IN"
	Voice     string    `json:"voice"`    // UI voice name: "Aarav", "Anaya", "Dev", "Mira"
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"created_at"`
}

type Render struct {
	ID           uuid.UUID    `json:"id"`
	ProjectID    uuid.UUID    `json:"project_id"`
	Status       RenderStatus `json:"status"`
	Progress     int          `json:"progress"`
	VideoURL     *string      `json:"video_url,omitempty"`
	ThumbnailURL *string      `json:"thumbnail_url,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Video is one AI-video-create request: the full set of composition inputs
// (script, voice, layout, captions, music) plus job state and output URLs.
type Video struct {
	ID              uuid.UUID   `json:"id"`
	Title           *string     `json:"title,omitempty"`
	Script          string      `json:"script"`
	Voice           string      `json:"voice"`
	Language        string      `json:"language"`
	Template        string      `json:"template"`
	SelectedModel   string      `json:"selected_model"`
	AspectRatio     string      `json:"aspect_ratio"`  // "9:16", "16:9", "1:1"
	Resolution      string      `json:"resolution"`    // "720p", "1080p"
	DurationMode    string      `json:"duration_mode"` // "auto", "custom"
	DurationSeconds *int        `json:"duration_seconds,omitempty"`
	CaptionsEnabled bool        `json:"captions_enabled"`
	ImageURLs       StringList  `json:"image_urls"`
	MusicMode       string      `json:"music_mode"` // "none", "library", "upload"
	MusicTrackID    *string     `json:"music_track_id,omitempty"`
	MusicFileURL    *string     `json:"music_file_url,omitempty"`
	MusicVolume     int         `json:"music_volume"`
	DuckMusic       bool        `json:"duck_music"`
	Status          VideoStatus `json:"status"`
	Progress        int         `json:"progress"`
	OutputURL       *string     `json:"output_url,omitempty"`
	ThumbnailURL    *string     `json:"thumbnail_url,omitempty"`
	ErrorMessage    *string     `json:"error_message,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ModelRegistryEntry describes one selectable AI video model. Selection
// metadata only — the provider call itself is out of scope, so the worker
// always renders through the local composition pipeline.
type ModelRegistryEntry struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Description  string `json:"description"`
	FrontendHint string `json:"frontend_hint"`
}

// MusicTrack is one entry of the built-in background music library.
type MusicTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
}

// DTOs for API requests/responses

type CreateProjectRequest struct {
	Title    string  `json:"title"`
	Script   string  `json:"script"`
	Language *string `json:"language,omitempty"` // Default: "en-IN"
	Voice    *string `json:"voice,omitempty"`    // Default: "Anaya"
	Template *string `json:"template,omitempty"` // Default: "clean-corporate"
}

type CreateRenderRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
}

type CreateRenderResponse struct {
	RenderID uuid.UUID    `json:"render_id"`
	Status   RenderStatus `json:"status"`
}

type CreateVideoRequest struct {
	Title           *string  `json:"title,omitempty"`
	Script          string   `json:"script"`
	Voice           *string  `json:"voice,omitempty"`
	Language        *string  `json:"language,omitempty"`
	Template        *string  `json:"template,omitempty"`
	ModelKey        string   `json:"model_key"`
	ImageURLs       []string `json:"image_urls,omitempty"`
	AspectRatio     *string  `json:"aspect_ratio,omitempty"` // Default: "9:16"
	Resolution      *string  `json:"resolution,omitempty"`   // Default: "1080p"
	DurationMode    *string  `json:"duration_mode,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	CaptionsEnabled *bool    `json:"captions_enabled,omitempty"` // Default: true
	MusicMode       *string  `json:"music_mode,omitempty"`
	MusicTrackID    *string  `json:"music_track_id,omitempty"`
	MusicFileURL    *string  `json:"music_file_url,omitempty"`
	MusicVolume     *int     `json:"music_volume,omitempty"` // Default: 20
	DuckMusic       *bool    `json:"duck_music,omitempty"`   // Default: true
}

type CreateVideoResponse struct {
	VideoID uuid.UUID   `json:"video_id"`
	Status  VideoStatus `json:"status"`
}

type UploadResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}
