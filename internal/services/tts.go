package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ---------------------------------------------------------------------------
// Voiceover synthesis with on-disk caching
//
// Narration audio is expensive to generate and scripts repeat across retries,
// so every synthesized clip is cached under a content hash. A cache hit skips
// the provider entirely.
// ---------------------------------------------------------------------------

// voiceCatalog maps friendly voice keys to provider voice IDs. Unknown keys
// fall back to the default narrator.
var voiceCatalog = map[string]string{
	"aarav": "pNInz6obpgDQGcFmaJgB",
	"anaya": "EXAVITQu4vr4xnSDxMaL",
	"dev":   "TxGEqnHWrfWFTfGW9XjX",
	"mira":  "ThT5KcBeYPX3keUQqHPh",
}

const defaultVoiceKey = "aarav"

// VoiceCatalog returns the friendly voice keys the API exposes.
func VoiceCatalog() []string {
	keys := make([]string, 0, len(voiceCatalog))
	for key := range voiceCatalog {
		keys = append(keys, key)
	}
	return keys
}

// SpeechSynthesizer produces narration audio bytes for a script.
type SpeechSynthesizer interface {
	GenerateSpeech(ctx context.Context, text, voiceID, language string, sampleRateHz int) ([]byte, error)
}

// TTS wraps a speech provider with voice resolution and file caching. It
// satisfies the media pipeline's Voiceover interface.
type TTS struct {
	provider SpeechSynthesizer
}

func NewTTS(provider SpeechSynthesizer) *TTS {
	return &TTS{provider: provider}
}

// ResolveVoice maps a friendly voice key onto a provider voice ID.
func ResolveVoice(voiceKey string) (key, voiceID string) {
	if id, ok := voiceCatalog[voiceKey]; ok {
		return voiceKey, id
	}
	return defaultVoiceKey, voiceCatalog[defaultVoiceKey]
}

// cacheKey derives the cache file name from everything that changes the audio.
func cacheKey(script, voiceID, language string, sampleRateHz int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s:%d", voiceID, language, script, sampleRateHz)))
	return hex.EncodeToString(sum[:])
}

// Synthesize returns a local mp3 path for the narration, generating it through
// the provider only on a cache miss.
func (t *TTS) Synthesize(ctx context.Context, script, voiceKey, language string, sampleRateHz int, cacheDir string) (string, string, error) {
	resolvedKey, voiceID := ResolveVoice(voiceKey)

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create tts cache dir: %w", err)
	}

	path := filepath.Join(cacheDir, cacheKey(script, voiceID, language, sampleRateHz)+".mp3")
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		log.Printf("[TTS] Cache hit for voice=%s (%d bytes)", resolvedKey, info.Size())
		return path, resolvedKey, nil
	}

	audio, err := t.provider.GenerateSpeech(ctx, script, voiceID, language, sampleRateHz)
	if err != nil {
		return "", "", fmt.Errorf("speech synthesis failed: %w", err)
	}

	if err := os.WriteFile(path, audio, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write tts cache file: %w", err)
	}

	log.Printf("[TTS] Synthesized narration (voice=%s, %d bytes)", resolvedKey, len(audio))
	return path, resolvedKey, nil
}
