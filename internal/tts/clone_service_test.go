package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voice-synth/internal/config"
)

type fakeCloneModel struct {
	missing []string
	write   bool
	err     error
	delay   time.Duration
	params  CloneParams
}

func (m *fakeCloneModel) MissingDependencies() []string { return m.missing }

func (m *fakeCloneModel) SynthesizeToFile(ctx context.Context, params CloneParams) error {
	m.params = params
	if m.write {
		if err := os.WriteFile(params.OutPath, []byte("partial"), 0o644); err != nil {
			return err
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.err
}

func newCloneService(t *testing.T, model CloneModel, timeout time.Duration) (*CloneService, string) {
	t.Helper()
	tempDir := filepath.Join(t.TempDir(), "temp")
	return NewCloneService(zap.NewNop(), model, config.SynthesisConfig{TempDir: tempDir, Timeout: timeout}), tempDir
}

func TestCloneService_WritesToTempPath(t *testing.T) {
	model := &fakeCloneModel{write: true}
	s, tempDir := newCloneService(t, model, time.Second)

	path, err := s.Synthesize(context.Background(), Request{
		Text:         "Привет",
		SpeakerVoice: "speaker.wav",
		Language:     "ru",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tempDir, fmt.Sprintf("raw_%d.wav", os.Getpid())), path)
	assert.Equal(t, path, model.params.OutPath)
	assert.Equal(t, "Привет", model.params.Text)
	assert.Equal(t, "speaker.wav", model.params.SpeakerVoice)
	assert.Equal(t, "ru", model.params.Language)
	assert.FileExists(t, path)
}

func TestCloneService_ModelFailureRemovesTempFile(t *testing.T) {
	model := &fakeCloneModel{write: true, err: errors.New("cuda out of memory")}
	s, tempDir := newCloneService(t, model, time.Second)

	_, err := s.Synthesize(context.Background(), Request{Text: "Привет"})

	assert.EqualError(t, err, "cuda out of memory")
	assert.NoFileExists(t, filepath.Join(tempDir, fmt.Sprintf("raw_%d.wav", os.Getpid())))
}

func TestCloneService_Timeout(t *testing.T) {
	model := &fakeCloneModel{write: true, delay: 5 * time.Second}
	s, tempDir := newCloneService(t, model, 100*time.Millisecond)

	_, err := s.Synthesize(context.Background(), Request{Text: "Привет"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NoFileExists(t, filepath.Join(tempDir, fmt.Sprintf("raw_%d.wav", os.Getpid())))
}

func TestCloneService_NoOutput(t *testing.T) {
	s, _ := newCloneService(t, &fakeCloneModel{}, time.Second)

	_, err := s.Synthesize(context.Background(), Request{Text: "Привет"})

	var notFound *OutputNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCloneService_CheckDependencies(t *testing.T) {
	s, _ := newCloneService(t, &fakeCloneModel{missing: []string{"tts"}}, time.Second)

	assert.Equal(t, []string{"tts"}, s.CheckDependencies())
	assert.Equal(t, "xtts", s.Name())
}

func TestCoquiCLI_SynthesizeToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "raw.wav")
	// ${10} это значение --out_path, $2 это текст
	model := NewCoquiCLI(zap.NewNop(), config.XTTSConfig{
		Command:   `sh -c 'printf "%s|%s|%s|%s" "$2" "$4" "$6" "$8" > "${10}"' tts`,
		ModelName: "tts_models/multilingual/multi-dataset/xtts_v2",
	})

	require.Empty(t, model.MissingDependencies())
	err := model.SynthesizeToFile(context.Background(), CloneParams{
		Text:         "Привет",
		SpeakerVoice: "speaker.wav",
		Language:     "ru",
		OutPath:      out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Привет|tts_models/multilingual/multi-dataset/xtts_v2|speaker.wav|ru", string(data))
}

func TestCoquiCLI_NotInstalled(t *testing.T) {
	model := NewCoquiCLI(zap.NewNop(), config.XTTSConfig{
		Command:     "definitely-missing-tts-xyz",
		SearchPaths: []string{"/nonexistent/bin/tts"},
	})

	assert.Equal(t, []string{"definitely-missing-tts-xyz"}, model.MissingDependencies())
	assert.Error(t, model.SynthesizeToFile(context.Background(), CloneParams{}))
}
