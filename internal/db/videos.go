package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bobarin/rangmanch/internal/models"
	"github.com/google/uuid"
)

func (db *DB) CreateVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (
			id, title, script, voice, language, template, selected_model,
			aspect_ratio, resolution, duration_mode, duration_seconds,
			captions_enabled, image_urls, music_mode, music_track_id,
			music_file_url, music_volume, duck_music, status, progress
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING created_at, updated_at
	`

	return db.QueryRowContext(
		ctx, query,
		video.ID, video.Title, video.Script, video.Voice, video.Language,
		video.Template, video.SelectedModel, video.AspectRatio, video.Resolution,
		video.DurationMode, video.DurationSeconds, video.CaptionsEnabled,
		video.ImageURLs, video.MusicMode, video.MusicTrackID, video.MusicFileURL,
		video.MusicVolume, video.DuckMusic, video.Status, video.Progress,
	).Scan(&video.CreatedAt, &video.UpdatedAt)
}

func (db *DB) GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := `
		SELECT
			id, title, script, voice, language, template, selected_model,
			aspect_ratio, resolution, duration_mode, duration_seconds,
			captions_enabled, image_urls, music_mode, music_track_id,
			music_file_url, music_volume, duck_music, status, progress,
			output_url, thumbnail_url, error_message, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	video := &models.Video{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&video.ID, &video.Title, &video.Script, &video.Voice, &video.Language,
		&video.Template, &video.SelectedModel, &video.AspectRatio, &video.Resolution,
		&video.DurationMode, &video.DurationSeconds, &video.CaptionsEnabled,
		&video.ImageURLs, &video.MusicMode, &video.MusicTrackID, &video.MusicFileURL,
		&video.MusicVolume, &video.DuckMusic, &video.Status, &video.Progress,
		&video.OutputURL, &video.ThumbnailURL, &video.ErrorMessage,
		&video.CreatedAt, &video.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

func (db *DB) UpdateVideoProgress(ctx context.Context, id uuid.UUID, status models.VideoStatus, progress int) error {
	query := `UPDATE videos SET status = $1, progress = $2, updated_at = NOW() WHERE id = $3`
	_, err := db.ExecContext(ctx, query, status, progress, id)
	return err
}

func (db *DB) CompleteVideo(ctx context.Context, id uuid.UUID, outputURL, thumbnailURL string) error {
	query := `
		UPDATE videos
		SET status = $1, progress = 100, output_url = $2, thumbnail_url = $3,
			error_message = NULL, updated_at = NOW()
		WHERE id = $4
	`
	_, err := db.ExecContext(ctx, query, models.VideoStatusCompleted, outputURL, thumbnailURL, id)
	return err
}

func (db *DB) FailVideo(ctx context.Context, id uuid.UUID, errorMessage string, outputURL, thumbnailURL *string) error {
	query := `
		UPDATE videos
		SET status = $1, error_message = $2, output_url = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := db.ExecContext(ctx, query, models.VideoStatusFailed, errorMessage, outputURL, thumbnailURL, id)
	return err
}

// ResetVideoForRetry moves a failed video back to processing so the worker
// can pick it up again. Fails if the row is not currently failed.
func (db *DB) ResetVideoForRetry(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE videos
		SET status = $1, progress = 0, error_message = NULL,
			output_url = NULL, thumbnail_url = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	result, err := db.ExecContext(ctx, query, models.VideoStatusProcessing, id, models.VideoStatusFailed)
	if err != nil {
		return fmt.Errorf("failed to reset video: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to reset video: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video is not in a failed state")
	}

	return nil
}
