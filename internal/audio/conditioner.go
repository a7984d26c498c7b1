package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"

	"voice-synth/internal/config"
	"voice-synth/pkg/models"
)

const (
	wavFormatPCM   = 1
	outputBitDepth = 16
	outputFileMode = 0644
)

// Options выбирает этапы постобработки
type Options struct {
	Normalize   bool
	TrimSilence bool
}

// Conditioner улучшает качество синтезированного аудио
type Conditioner struct {
	logger      *zap.Logger
	sampleRate  int
	topDB       float64
	preEmphasis float64

	decode func(path string) (*Buffer, error)
}

// NewConditioner создает новый обработчик аудио
func NewConditioner(logger *zap.Logger, cfg config.AudioConfig) *Conditioner {
	return &Conditioner{
		logger:      logger,
		sampleRate:  cfg.SampleRate,
		topDB:       cfg.TrimTopDB,
		preEmphasis: cfg.PreEmphasis,
		decode:      decodeWAV,
	}
}

// Condition обрабатывает rawPath и записывает результат в finalPath.
// При любой ошибке или панике finalPath не создается, ошибка пишется в лог
// как предупреждение и возвращается false; сырой файл остается на месте.
func (c *Conditioner) Condition(rawPath, finalPath string, opts Options) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			c.logger.Warn("паника при улучшении аудио",
				zap.String("input", rawPath),
				zap.Any("panic", p))
			ok = false
		}
	}()

	if err := c.condition(rawPath, finalPath, opts); err != nil {
		c.logger.Warn("улучшение аудио не удалось",
			zap.String("input", rawPath),
			zap.Error(err))
		return false
	}
	return true
}

func (c *Conditioner) condition(rawPath, finalPath string, opts Options) error {
	buf, err := c.decode(rawPath)
	if err != nil {
		return err
	}
	before := buf.Duration()

	buf.Resample(c.sampleRate)

	if opts.TrimSilence {
		buf.TrimSilence(c.topDB)
		if len(buf.Samples) == 0 {
			return fmt.Errorf("аудио не содержит сигнала выше порога тишины")
		}
	}

	if opts.Normalize {
		buf.Normalize()
	}

	buf.PreEmphasis(c.preEmphasis)

	if err := encodeWAV(finalPath, buf); err != nil {
		return err
	}

	c.logger.Info("аудио улучшено",
		zap.String("output", finalPath),
		zap.Float64("duration_before", before),
		zap.Float64("duration_after", buf.Duration()),
		zap.Int("sample_rate", buf.SampleRate))
	return nil
}

// decodeWAV читает PCM WAV и сводит каналы в моно
func decodeWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия аудио: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("файл %s не является корректным WAV", path)
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("неподдерживаемый формат WAV: %d", d.WavAudioFormat)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования аудио: %w", err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels == 0 || pcm.Format.SampleRate == 0 {
		return nil, fmt.Errorf("в WAV не указан формат")
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("неподдерживаемая разрядность: %d бит", bitDepth)
	}

	channels := pcm.Format.NumChannels
	scale := math.Pow(2, float64(bitDepth-1))
	frames := len(pcm.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(pcm.Data[i*channels+ch])
		}
		samples[i] = sum / float64(channels) / scale
	}

	return &Buffer{Samples: samples, SampleRate: pcm.Format.SampleRate}, nil
}

// encodeWAV записывает 16-битный моно WAV через временный файл в той же директории
func encodeWAV(path string, buf *Buffer) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".conditioned-*.wav")
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}
	tmpName := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpName)
		}
	}()

	const maxValue = 1<<(outputBitDepth-1) - 1
	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * maxValue))
	}

	enc := wav.NewEncoder(f, buf.SampleRate, outputBitDepth, 1, wavFormatPCM)
	if err = enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: outputBitDepth,
	}); err != nil {
		return fmt.Errorf("ошибка кодирования аудио: %w", err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("ошибка завершения WAV: %w", err)
	}
	// CreateTemp создает файл с правами 0600
	if err = f.Chmod(outputFileMode); err != nil {
		return fmt.Errorf("ошибка установки прав файла: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("ошибка перемещения файла: %w", err)
	}
	return nil
}

// Probe читает параметры WAV файла
func Probe(path string) (*models.AudioMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия аудио: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("файл %s не является корректным WAV", path)
	}
	duration, err := d.Duration()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	return &models.AudioMetadata{
		SampleRate:      int(d.SampleRate),
		Channels:        int(d.NumChans),
		BitDepth:        int(d.BitDepth),
		DurationSeconds: duration.Seconds(),
	}, nil
}
