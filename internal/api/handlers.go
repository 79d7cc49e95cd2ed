package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobarin/rangmanch/internal/db"
	"github.com/bobarin/rangmanch/internal/media"
	"github.com/bobarin/rangmanch/internal/models"
	"github.com/bobarin/rangmanch/internal/queue"
	"github.com/bobarin/rangmanch/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 25 << 20 // 25 MB

// videoModelRegistry lists the AI models selectable at video creation.
// Selection metadata only; every job renders through the local pipeline.
var videoModelRegistry = []models.ModelRegistryEntry{
	{
		Key:          "sora2",
		Label:        "Sora 2",
		Description:  "Cinematic realism with strong motion coherence",
		FrontendHint: "best-quality",
	},
	{
		Key:          "veo3",
		Label:        "Veo 3",
		Description:  "Fast turnaround, great for short social clips",
		FrontendHint: "fastest",
	},
}

// builtinMusicCatalog is the music library surfaced by the API. IDs must
// match the pipeline's track table.
var builtinMusicCatalog = []models.MusicTrack{
	{ID: "uplift-india", Name: "Uplift India", PreviewURL: "/static/music/uplift-india.mp3"},
	{ID: "corporate-calm", Name: "Corporate Calm", PreviewURL: "/static/music/corporate-calm.mp3"},
	{ID: "soft-motivation", Name: "Soft Motivation", PreviewURL: "/static/music/soft-motivation.mp3"},
}

type Handler struct {
	db      *db.DB
	queue   *queue.Queue
	storage *storage.Store
}

func NewHandler(database *db.DB, q *queue.Queue, store *storage.Store) *Handler {
	return &Handler{
		db:      database,
		queue:   q,
		storage: store,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateProject handles POST /v1/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if strings.TrimSpace(req.Script) == "" {
		respondError(w, http.StatusBadRequest, "Script is required")
		return
	}

	project := &models.Project{
		ID:       uuid.New(),
		Title:    req.Title,
		Script:   req.Script,
		Language: stringOrDefault(req.Language, "en-IN"),
		Voice:    stringOrDefault(req.Voice, "Anaya"),
		Template: stringOrDefault(req.Template, "clean-corporate"),
	}

	if err := h.db.CreateProject(r.Context(), project); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

// ListProjects handles GET /v1/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20, 100)

	projects, err := h.db.ListProjects(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// GetProject handles GET /v1/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.db.GetProject(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// CreateRender handles POST /v1/renders
func (h *Handler) CreateRender(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ProjectID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	if _, err := h.db.GetProject(r.Context(), req.ProjectID); err != nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	render := &models.Render{
		ID:        uuid.New(),
		ProjectID: req.ProjectID,
		Status:    models.RenderStatusPending,
	}

	if err := h.db.CreateRender(r.Context(), render); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create render")
		return
	}

	if err := h.queue.EnqueueProcessRender(r.Context(), render.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue render")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateRenderResponse{
		RenderID: render.ID,
		Status:   render.Status,
	})
}

// GetRender handles GET /v1/renders/{id}
func (h *Handler) GetRender(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid render ID")
		return
	}

	render, err := h.db.GetRender(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Render not found")
		return
	}

	respondJSON(w, http.StatusOK, render)
}

// ListVideoModels handles GET /v1/videos/models
func (h *Handler) ListVideoModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"models": videoModelRegistry})
}

// CreateVideo handles POST /v1/videos
func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Script) == "" {
		respondError(w, http.StatusBadRequest, "Script is required")
		return
	}

	if !isKnownModel(req.ModelKey) {
		respondError(w, http.StatusBadRequest, "Unknown model_key")
		return
	}

	aspectRatio := stringOrDefault(req.AspectRatio, "9:16")
	if aspectRatio != "9:16" && aspectRatio != "16:9" && aspectRatio != "1:1" {
		respondError(w, http.StatusBadRequest, "aspect_ratio must be 9:16, 16:9, or 1:1")
		return
	}

	resolution := stringOrDefault(req.Resolution, "1080p")
	if resolution != "720p" && resolution != "1080p" {
		respondError(w, http.StatusBadRequest, "resolution must be 720p or 1080p")
		return
	}

	durationMode := stringOrDefault(req.DurationMode, "auto")
	if durationMode != "auto" && durationMode != "custom" {
		respondError(w, http.StatusBadRequest, "duration_mode must be auto or custom")
		return
	}
	if durationMode == "custom" {
		if req.DurationSeconds == nil {
			respondError(w, http.StatusBadRequest, "duration_seconds is required in custom mode")
			return
		}
		if *req.DurationSeconds < 5 || *req.DurationSeconds > 300 {
			respondError(w, http.StatusBadRequest, "duration_seconds must be between 5 and 300")
			return
		}
	}

	musicMode := stringOrDefault(req.MusicMode, "none")
	switch musicMode {
	case "none":
	case "library":
		if req.MusicTrackID == nil || !isKnownMusicTrack(*req.MusicTrackID) {
			respondError(w, http.StatusBadRequest, "music_track_id must name a library track")
			return
		}
	case "upload":
		if req.MusicFileURL == nil || strings.TrimSpace(*req.MusicFileURL) == "" {
			respondError(w, http.StatusBadRequest, "music_file_url is required in upload mode")
			return
		}
	default:
		respondError(w, http.StatusBadRequest, "music_mode must be none, library, or upload")
		return
	}

	musicVolume := 20
	if req.MusicVolume != nil {
		musicVolume = *req.MusicVolume
	}
	if musicVolume < 0 || musicVolume > 100 {
		respondError(w, http.StatusBadRequest, "music_volume must be between 0 and 100")
		return
	}

	captionsEnabled := true
	if req.CaptionsEnabled != nil {
		captionsEnabled = *req.CaptionsEnabled
	}

	duckMusic := true
	if req.DuckMusic != nil {
		duckMusic = *req.DuckMusic
	}

	video := &models.Video{
		ID:              uuid.New(),
		Title:           req.Title,
		Script:          req.Script,
		Voice:           stringOrDefault(req.Voice, "Anaya"),
		Language:        stringOrDefault(req.Language, "en-IN"),
		Template:        stringOrDefault(req.Template, "clean-corporate"),
		SelectedModel:   req.ModelKey,
		AspectRatio:     aspectRatio,
		Resolution:      resolution,
		DurationMode:    durationMode,
		DurationSeconds: req.DurationSeconds,
		CaptionsEnabled: captionsEnabled,
		ImageURLs:       models.StringList(req.ImageURLs),
		MusicMode:       musicMode,
		MusicTrackID:    req.MusicTrackID,
		MusicFileURL:    req.MusicFileURL,
		MusicVolume:     musicVolume,
		DuckMusic:       duckMusic,
		Status:          models.VideoStatusProcessing,
	}

	if err := h.db.CreateVideo(r.Context(), video); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create video")
		return
	}

	if err := h.queue.EnqueueProcessVideo(r.Context(), video.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue video")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateVideoResponse{
		VideoID: video.ID,
		Status:  video.Status,
	})
}

// GetVideo handles GET /v1/videos/{id}
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	video, err := h.db.GetVideo(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Video not found")
		return
	}

	respondJSON(w, http.StatusOK, video)
}

// RetryVideo handles POST /v1/videos/{id}/retry
func (h *Handler) RetryVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	if _, err := h.db.GetVideo(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "Video not found")
		return
	}

	if err := h.db.ResetVideoForRetry(r.Context(), id); err != nil {
		respondError(w, http.StatusConflict, "Only failed videos can be retried")
		return
	}

	if err := h.queue.EnqueueProcessVideo(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue video")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"video_id": id,
		"status":   models.VideoStatusProcessing,
	})
}

// ListMusicTracks handles GET /v1/music/tracks
func (h *Handler) ListMusicTracks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": builtinMusicCatalog})
}

// Upload handles POST /v1/uploads (multipart form, field "file")
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or oversized file field")
		return
	}
	defer file.Close()

	url, err := h.storage.SaveUpload(file, header.Filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	respondJSON(w, http.StatusCreated, models.UploadResponse{
		URL:  url,
		Name: header.Filename,
	})
}

// Helpers

func isKnownModel(key string) bool {
	for _, entry := range videoModelRegistry {
		if entry.Key == key {
			return true
		}
	}
	return false
}

func isKnownMusicTrack(id string) bool {
	_, ok := media.BuiltinMusicTracks()[id]
	return ok
}

func stringOrDefault(value *string, fallback string) string {
	if value != nil && strings.TrimSpace(*value) != "" {
		return *value
	}
	return fallback
}

func parsePagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
