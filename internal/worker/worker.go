package worker

import (
	"context"
	"log"
	"time"

	"github.com/bobarin/rangmanch/internal/db"
	"github.com/bobarin/rangmanch/internal/media"
	"github.com/bobarin/rangmanch/internal/models"
	"github.com/bobarin/rangmanch/internal/queue"
	"github.com/bobarin/rangmanch/internal/storage"
	"golang.org/x/sync/errgroup"
)

const maxErrorMessageLen = 500

type Worker struct {
	db       *db.DB
	queue    *queue.Queue
	storage  *storage.Store
	renderer *media.Renderer
}

func New(database *db.DB, q *queue.Queue, store *storage.Store, renderer *media.Renderer) *Worker {
	return &Worker{
		db:       database,
		queue:    q,
		storage:  store,
		renderer: renderer,
	}
}

// Start begins processing jobs from all queues. Blocks until ctx is done and
// all loops have drained.
func (w *Worker) Start(ctx context.Context, concurrency int) {
	log.Printf("[Worker] Started with concurrency: %d", concurrency)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			w.processQueue(ctx, queue.QueueProcessRender, w.handleProcessRender)
			return nil
		})
		g.Go(func() error {
			w.processQueue(ctx, queue.QueueProcessVideo, w.handleProcessVideo)
			return nil
		})
	}

	g.Wait()
	log.Println("[Worker] Shut down")
}

func (w *Worker) processQueue(ctx context.Context, queueName string, handler func(context.Context, *queue.Job) error) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			job, err := w.queue.Dequeue(ctx, queueName, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("[Worker] Error dequeuing from %s: %v", queueName, err)
				continue
			}

			if job == nil {
				continue // No job available, retry
			}

			log.Printf("[Worker] Processing job %s (type: %s, target: %s)", job.ID, job.Type, job.TargetID)

			if err := handler(ctx, job); err != nil {
				log.Printf("[Worker] Job %s failed: %v", job.ID, err)
			} else {
				log.Printf("[Worker] Job %s completed successfully", job.ID)
			}
		}
	}
}

// handleProcessRender renders the classic script card for a render row.
func (w *Worker) handleProcessRender(ctx context.Context, job *queue.Job) error {
	render, err := w.db.GetRender(ctx, job.TargetID)
	if err != nil {
		return err
	}

	project, err := w.db.GetProject(ctx, render.ProjectID)
	if err != nil {
		w.db.FailRender(ctx, render.ID, truncateError(err), nil, nil)
		return err
	}

	if err := w.db.UpdateRenderProgress(ctx, render.ID, models.RenderStatusRendering, 10); err != nil {
		log.Printf("[Worker] Failed to update render progress: %v", err)
	}

	artifact, renderErr := w.renderer.BuildVideo(ctx, render.ID.String(), project.Script)

	videoURL := w.storage.PublicURL(artifact.VideoPath)
	thumbURL := w.storage.PublicURL(artifact.ThumbnailPath)

	if renderErr != nil {
		// Placeholder artifacts exist, so the URLs are still recorded.
		msg := truncateError(renderErr)
		if err := w.db.FailRender(ctx, render.ID, msg, &videoURL, &thumbURL); err != nil {
			log.Printf("[Worker] Failed to mark render failed: %v", err)
		}
		return renderErr
	}

	return w.db.CompleteRender(ctx, render.ID, videoURL, thumbURL)
}

// handleProcessVideo runs the full composition pipeline for a video row.
func (w *Worker) handleProcessVideo(ctx context.Context, job *queue.Job) error {
	video, err := w.db.GetVideo(ctx, job.TargetID)
	if err != nil {
		return err
	}

	if err := w.db.UpdateVideoProgress(ctx, video.ID, models.VideoStatusProcessing, 10); err != nil {
		log.Printf("[Worker] Failed to update video progress: %v", err)
	}

	spec := media.RenderSpec{
		RenderID:        video.ID.String(),
		Title:           derefString(video.Title),
		Script:          video.Script,
		VoiceKey:        video.Voice,
		Language:        video.Language,
		ImageURLs:       video.ImageURLs,
		AspectRatio:     video.AspectRatio,
		Resolution:      video.Resolution,
		DurationMode:    video.DurationMode,
		DurationSeconds: video.DurationSeconds,
		CaptionsEnabled: video.CaptionsEnabled,
		MusicMode:       video.MusicMode,
		MusicTrackID:    derefString(video.MusicTrackID),
		MusicFileURL:    derefString(video.MusicFileURL),
		MusicVolume:     video.MusicVolume,
		DuckMusic:       video.DuckMusic,
	}

	artifact, renderErr := w.renderer.Render(ctx, spec)

	outputURL := w.storage.PublicURL(artifact.VideoPath)
	thumbURL := w.storage.PublicURL(artifact.ThumbnailPath)

	if renderErr != nil {
		msg := truncateError(renderErr)
		if err := w.db.FailVideo(ctx, video.ID, msg, &outputURL, &thumbURL); err != nil {
			log.Printf("[Worker] Failed to mark video failed: %v", err)
		}
		return renderErr
	}

	return w.db.CompleteVideo(ctx, video.ID, outputURL, thumbURL)
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	return msg
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
