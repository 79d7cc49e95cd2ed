package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bobarin/rangmanch/internal/models"
	"github.com/google/uuid"
)

func (db *DB) CreateRender(ctx context.Context, render *models.Render) error {
	query := `
		INSERT INTO renders (id, project_id, status, progress)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	return db.QueryRowContext(
		ctx, query,
		render.ID, render.ProjectID, render.Status, render.Progress,
	).Scan(&render.CreatedAt, &render.UpdatedAt)
}

func (db *DB) GetRender(ctx context.Context, id uuid.UUID) (*models.Render, error) {
	query := `
		SELECT id, project_id, status, progress, video_url, thumbnail_url,
			error_message, created_at, updated_at
		FROM renders
		WHERE id = $1
	`

	render := &models.Render{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&render.ID, &render.ProjectID, &render.Status, &render.Progress,
		&render.VideoURL, &render.ThumbnailURL, &render.ErrorMessage,
		&render.CreatedAt, &render.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("render not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get render: %w", err)
	}

	return render, nil
}

func (db *DB) UpdateRenderProgress(ctx context.Context, id uuid.UUID, status models.RenderStatus, progress int) error {
	query := `UPDATE renders SET status = $1, progress = $2, updated_at = NOW() WHERE id = $3`
	_, err := db.ExecContext(ctx, query, status, progress, id)
	return err
}

func (db *DB) CompleteRender(ctx context.Context, id uuid.UUID, videoURL, thumbnailURL string) error {
	query := `
		UPDATE renders
		SET status = $1, progress = 100, video_url = $2, thumbnail_url = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := db.ExecContext(ctx, query, models.RenderStatusCompleted, videoURL, thumbnailURL, id)
	return err
}

// FailRender records the failure message. Output URLs may still be set when
// placeholder artifacts were written.
func (db *DB) FailRender(ctx context.Context, id uuid.UUID, errorMessage string, videoURL, thumbnailURL *string) error {
	query := `
		UPDATE renders
		SET status = $1, error_message = $2, video_url = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := db.ExecContext(ctx, query, models.RenderStatusFailed, errorMessage, videoURL, thumbnailURL, id)
	return err
}
