package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics содержит метрики одного запуска синтеза.
// Реестр свой на каждый запуск, глобальный реестр не используется.
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Счетчики
	runs                *prometheus.CounterVec
	conditioningResults *prometheus.CounterVec

	// Гистограммы
	synthesisDuration *prometheus.HistogramVec

	// Gauge метрики
	outputBytes prometheus.Gauge
	textLength  prometheus.Gauge
	lastRun     prometheus.Gauge
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),

		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voice_synth_runs_total",
				Help: "Количество запусков синтеза по исходу",
			},
			[]string{"backend", "outcome"}, // outcome: success, validation, timeout, ...
		),

		conditioningResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voice_synth_conditioning_total",
				Help: "Результаты постобработки аудио",
			},
			[]string{"result"}, // applied, fallback, skipped
		),

		synthesisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voice_synth_synthesis_duration_seconds",
				Help:    "Время работы модели синтеза в секундах",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 180, 240, 300},
			},
			[]string{"backend"},
		),

		outputBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "voice_synth_output_bytes",
				Help: "Размер итогового аудио файла",
			},
		),

		textLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "voice_synth_text_length_chars",
				Help: "Длина входного текста в символах",
			},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "voice_synth_last_run_timestamp_seconds",
				Help: "Timestamp последнего запуска",
			},
		),
	}

	m.registry.MustRegister(
		m.runs,
		m.conditioningResults,
		m.synthesisDuration,
		m.outputBytes,
		m.textLength,
		m.lastRun,
	)

	return m
}

// RecordRun записывает исход запуска
func (m *Metrics) RecordRun(backend, outcome string) {
	m.runs.WithLabelValues(backend, outcome).Inc()
	m.lastRun.Set(float64(time.Now().Unix()))
	m.logger.Debug("метрика запуска записана", zap.String("backend", backend), zap.String("outcome", outcome))
}

// RecordSynthesis записывает время работы модели
func (m *Metrics) RecordSynthesis(backend string, elapsed time.Duration) {
	m.synthesisDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// RecordConditioning записывает результат постобработки
func (m *Metrics) RecordConditioning(result string) {
	m.conditioningResults.WithLabelValues(result).Inc()
}

// RecordOutput записывает размеры входа и выхода
func (m *Metrics) RecordOutput(textLength int, fileSize int64) {
	m.textLength.Set(float64(textLength))
	m.outputBytes.Set(float64(fileSize))
}

// Registry возвращает реестр метрик запуска
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile выгружает метрики в файл для textfile collector node_exporter
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("ошибка записи метрик в %s: %w", path, err)
	}
	m.logger.Debug("метрики выгружены", zap.String("path", path))
	return nil
}
