package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// Render orchestrator
//
// Drives one render end-to-end: voiceover → timing → slideshow → audio mix →
// mux → thumbnail. Stages are strictly sequential; each stage's output is
// the next stage's input, and the surrounding job system provides all the
// concurrency this pipeline needs. Intermediate files are namespaced by
// render ID, so concurrent jobs never collide on disk.
// ---------------------------------------------------------------------------

// Stage names one step of the render state machine. A render moves
// Pending → TimingResolved → SlideshowBuilt → AudioMixed → Muxed → Done,
// or to Failed from any stage.
type Stage string

const (
	StagePending         Stage = "pending"
	StageTimingResolved  Stage = "timing_resolved"
	StageSlideshowBuilt  Stage = "slideshow_built"
	StageAudioMixed      Stage = "audio_mixed"
	StageMuxed           Stage = "muxed"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

const voiceSampleRateHz = 44100

// Placeholder artifacts written on total pipeline failure, so downstream
// upload/serving code never encounters a missing file. The failure itself is
// surfaced through the returned error, never through file absence.
var (
	placeholderVideoBytes = []byte("RANGMANCH-MOCK-MP4")
	placeholderThumbBytes = []byte("RANGMANCH-MOCK-THUMB")
)

// builtinMusicTracks maps library track IDs to their static URLs.
var builtinMusicTracks = map[string]string{
	"uplift-india":    "/static/music/uplift-india.mp3",
	"corporate-calm":  "/static/music/corporate-calm.mp3",
	"soft-motivation": "/static/music/soft-motivation.mp3",
}

// BuiltinMusicTracks returns a copy of the library track map.
func BuiltinMusicTracks() map[string]string {
	tracks := make(map[string]string, len(builtinMusicTracks))
	for id, url := range builtinMusicTracks {
		tracks[id] = url
	}
	return tracks
}

// RenderSpec is the immutable input of one render. The caller validates enum
// membership before invocation; the pipeline only defends against missing
// files.
type RenderSpec struct {
	RenderID        string
	Title           string
	Script          string
	VoiceKey        string
	Language        string
	ImageURLs       []string
	AspectRatio     string // "9:16", "16:9", "1:1"
	Resolution      string // "720p", "1080p"
	DurationMode    string // "auto", "custom"
	DurationSeconds *int   // present iff custom
	CaptionsEnabled bool
	MusicMode       string // "none", "library", "upload"
	MusicTrackID    string
	MusicFileURL    string
	MusicVolume     int // 0-100
	DuckMusic       bool
}

// Artifact is the persisted output of a render. Degraded marks placeholder
// files written after a pipeline failure.
type Artifact struct {
	VideoPath     string
	ThumbnailPath string
	Degraded      bool
}

// Voiceover synthesizes narration to a local audio file, idempotent by
// content hash (same script+voice+language+rate reuses the cached file).
type Voiceover interface {
	Synthesize(ctx context.Context, script, voiceKey, language string, sampleRateHz int, cacheDir string) (localPath string, resolvedVoice string, err error)
}

// AssetResolver maps public asset URLs (/static/...) onto local paths.
type AssetResolver interface {
	LocalPath(url string) string
}

// Renderer owns the composition pipeline for render and AI-video jobs.
type Renderer struct {
	tool        *FFmpeg
	voice       Voiceover
	assets      AssetResolver
	fonts       *FontResolver
	rendersDir  string
	ttsCacheDir string
}

func NewRenderer(tool *FFmpeg, voice Voiceover, assets AssetResolver, rendersDir, ttsCacheDir string) *Renderer {
	for _, dir := range []string{rendersDir, ttsCacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(fmt.Sprintf("failed to create renders dir: %v", err))
		}
	}

	return &Renderer{
		tool:        tool,
		voice:       voice,
		assets:      assets,
		fonts:       NewFontResolver(),
		rendersDir:  rendersDir,
		ttsCacheDir: ttsCacheDir,
	}
}

// OutputPaths returns the artifact locations for a render ID. They exist
// after Render returns, on success and on failure alike.
func (r *Renderer) OutputPaths(renderID string) (videoPath, thumbPath string) {
	return filepath.Join(r.rendersDir, renderID+".mp4"),
		filepath.Join(r.rendersDir, renderID+".jpg")
}

// Render runs the full composition pipeline for one spec. On failure it
// writes deterministic placeholder bytes at the expected output paths and
// returns the artifact alongside the error — availability over correctness,
// so file-serving paths downstream never 404.
func (r *Renderer) Render(ctx context.Context, spec RenderSpec) (Artifact, error) {
	videoPath, thumbPath := r.OutputPaths(spec.RenderID)
	artifact := Artifact{VideoPath: videoPath, ThumbnailPath: thumbPath}

	if err := r.render(ctx, spec, videoPath, thumbPath); err != nil {
		log.Printf("[Pipeline] Render %s failed, writing placeholder artifacts: %v", spec.RenderID, err)
		r.writePlaceholders(videoPath, thumbPath)
		artifact.Degraded = true
		return artifact, err
	}

	return artifact, nil
}

func (r *Renderer) render(ctx context.Context, spec RenderSpec, videoPath, thumbPath string) error {
	stage := StagePending
	log.Printf("[Pipeline] Render %s: stage=%s", spec.RenderID, stage)

	imagePaths := r.localImages(spec.ImageURLs)
	width, height := ResolveTargetSize(spec.AspectRatio, spec.Resolution)

	// Narration first: its probed duration can dictate the whole timeline.
	voicePath := ""
	voiceDuration := 0.0
	if strings.TrimSpace(spec.Script) != "" {
		path, resolvedVoice, err := r.voice.Synthesize(ctx, spec.Script, spec.VoiceKey, spec.Language, voiceSampleRateHz, r.ttsCacheDir)
		if err != nil {
			return fmt.Errorf("voiceover synthesis failed: %w", err)
		}
		voicePath = path
		voiceDuration = r.tool.ProbeDuration(ctx, voicePath)
		log.Printf("[Pipeline] Render %s: voiceover ready (voice=%s, duration=%.2fs)", spec.RenderID, resolvedVoice, voiceDuration)
	}

	// An unprobeable narration track (duration 0) falls back to image-based
	// timing; the track itself still gets mixed and trimmed by -shortest.
	timingVoicePresent := voicePath != "" && voiceDuration > 0

	plan := ResolveTiming(voiceDuration, len(imagePaths), timingVoicePresent, spec.DurationMode, spec.DurationSeconds)
	stage = StageTimingResolved
	log.Printf("[Pipeline] Render %s: stage=%s (total=%.2fs, perImage=%.2fs, images=%d)",
		spec.RenderID, stage, plan.TotalSeconds, plan.PerImageSeconds, len(imagePaths))

	var captions []CaptionWindow
	if spec.CaptionsEnabled {
		captions = CaptionWindows(spec.Script, plan.TotalSeconds)
	}

	slideshowPath := filepath.Join(r.rendersDir, spec.RenderID+"_slideshow.mp4")
	defer os.Remove(slideshowPath)

	if err := r.composeSlideshow(ctx, slideshowPath, imagePaths, plan, spec.Title, captions, width, height); err != nil {
		return err
	}
	stage = StageSlideshowBuilt
	log.Printf("[Pipeline] Render %s: stage=%s (%dx%d, %d captions)", spec.RenderID, stage, width, height, len(captions))

	musicPath := r.resolveMusicPath(spec)
	audioPlan := BuildAudioPlan(voicePath, musicPath, plan.TotalSeconds, spec.MusicVolume, spec.DuckMusic, voicePath != "")
	stage = StageAudioMixed
	log.Printf("[Pipeline] Render %s: stage=%s (voice=%t, music=%t, silent=%t)",
		spec.RenderID, stage, voicePath != "", musicPath != "", audioPlan.Silent)

	if err := r.muxFinal(ctx, slideshowPath, videoPath, plan.TotalSeconds, audioPlan); err != nil {
		return err
	}
	stage = StageMuxed
	log.Printf("[Pipeline] Render %s: stage=%s", spec.RenderID, stage)

	if err := r.tool.Thumbnail(ctx, videoPath, thumbPath); err != nil {
		return err
	}
	stage = StageDone
	log.Printf("[Pipeline] Render %s: stage=%s", spec.RenderID, stage)

	return nil
}

// muxFinal combines the silent slideshow with the planned audio into the
// output container.
func (r *Renderer) muxFinal(ctx context.Context, slideshowPath, outputPath string, totalDuration float64, plan AudioPlan) error {
	if plan.Silent {
		// Attach a synthesized silence track; video-only files choke some
		// downstream players.
		return r.tool.Run(ctx, "mux",
			"-y",
			"-i", slideshowPath,
			"-c:v", "copy",
			"-f", "lavfi",
			"-i", fmt.Sprintf("anullsrc=r=%d:cl=stereo:d=%.2f", voiceSampleRateHz, totalDuration),
			"-shortest",
			"-c:a", "aac",
			"-b:a", "128k",
			outputPath,
		)
	}

	args := []string{"-y", "-i", slideshowPath}
	args = append(args, plan.Inputs...)
	if plan.FilterComplex != "" {
		args = append(args, "-filter_complex", plan.FilterComplex)
	}
	args = append(args, "-map", "0:v")
	if plan.MapAudio != "" {
		args = append(args, "-map", plan.MapAudio)
	}
	args = append(args,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:a", "128k",
		"-shortest",
		outputPath,
	)

	return r.tool.Run(ctx, "mux", args...)
}

// resolveMusicPath maps the music selection to a local file. Any missing or
// unknown source degrades to "no music" rather than failing the render.
func (r *Renderer) resolveMusicPath(spec RenderSpec) string {
	switch spec.MusicMode {
	case "library":
		trackURL, ok := builtinMusicTracks[spec.MusicTrackID]
		if !ok {
			log.Printf("[Pipeline] Render %s: unknown music track %q, continuing without music", spec.RenderID, spec.MusicTrackID)
			return ""
		}
		return r.existingLocalPath(spec.RenderID, trackURL)
	case "upload":
		if spec.MusicFileURL == "" {
			return ""
		}
		return r.existingLocalPath(spec.RenderID, spec.MusicFileURL)
	default:
		return ""
	}
}

func (r *Renderer) existingLocalPath(renderID, url string) string {
	path := r.assets.LocalPath(url)
	if _, err := os.Stat(path); err != nil {
		log.Printf("[Pipeline] Render %s: music file %s not found, continuing without music", renderID, url)
		return ""
	}
	return path
}

// localImages resolves image URLs to local paths, dropping missing files.
func (r *Renderer) localImages(urls []string) []string {
	var paths []string
	for _, url := range urls {
		path := r.assets.LocalPath(url)
		if _, err := os.Stat(path); err != nil {
			log.Printf("[Pipeline] Warning: image %s not found locally, skipping", url)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (r *Renderer) writePlaceholders(videoPath, thumbPath string) {
	if err := os.WriteFile(videoPath, placeholderVideoBytes, 0644); err != nil {
		log.Printf("[Pipeline] Warning: failed to write placeholder video: %v", err)
	}
	if err := os.WriteFile(thumbPath, placeholderThumbBytes, 0644); err != nil {
		log.Printf("[Pipeline] Warning: failed to write placeholder thumbnail: %v", err)
	}
}

// BuildVideo is the legacy render-job path: a 6-second dark card with the
// script burned in the center. Kept for the classic /v1/renders flow.
func (r *Renderer) BuildVideo(ctx context.Context, renderID, script string) (Artifact, error) {
	videoPath, thumbPath := r.OutputPaths(renderID)
	artifact := Artifact{VideoPath: videoPath, ThumbnailPath: thumbPath}

	caption := strings.TrimSpace(script)
	if caption == "" {
		caption = "RangManch AI Render"
	}
	caption = clipRunes(caption, 80)

	chain := (&Chain{}).DrawText(DrawText{
		Text:      caption,
		FontColor: "white",
		FontSize:  42,
		X:         "(w-text_w)/2",
		Y:         "(h-text_h)/2",
	})

	err := r.tool.Run(ctx, "card",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=1280x720:d=6", cardBackgroundColor),
		"-vf", chain.String(),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		videoPath,
	)
	if err == nil {
		err = r.tool.Thumbnail(ctx, videoPath, thumbPath)
	}

	if err != nil {
		log.Printf("[Pipeline] Card render %s failed, writing placeholder artifacts: %v", renderID, err)
		r.writePlaceholders(videoPath, thumbPath)
		artifact.Degraded = true
		return artifact, err
	}

	return artifact, nil
}
