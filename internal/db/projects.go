package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bobarin/rangmanch/internal/models"
	"github.com/google/uuid"
)

func (db *DB) CreateProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, title, script, language, voice, template)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	return db.QueryRowContext(
		ctx, query,
		project.ID, project.Title, project.Script,
		project.Language, project.Voice, project.Template,
	).Scan(&project.CreatedAt)
}

func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, title, script, language, voice, template, created_at
		FROM projects
		WHERE id = $1
	`

	project := &models.Project{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Title, &project.Script,
		&project.Language, &project.Voice, &project.Template,
		&project.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// ListProjects returns projects ordered by creation date (newest first).
func (db *DB) ListProjects(ctx context.Context, limit, offset int) ([]models.Project, error) {
	query := `
		SELECT id, title, script, language, voice, template, created_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Script,
			&p.Language, &p.Voice, &p.Template,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}
