package audio

import "math"

// Параметры поиска тишины
const (
	trimFrameLength = 2048
	trimHopLength   = 512
)

// Buffer содержит моно сигнал в диапазоне [-1, 1]. Этапы обработки меняют его на месте.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Duration возвращает длительность сигнала в секундах
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Resample меняет частоту дискретизации линейной интерполяцией
func (b *Buffer) Resample(rate int) {
	if rate <= 0 || rate == b.SampleRate || len(b.Samples) == 0 {
		if rate > 0 {
			b.SampleRate = rate
		}
		return
	}

	ratio := float64(b.SampleRate) / float64(rate)
	n := int(math.Round(float64(len(b.Samples)) / ratio))
	out := make([]float64, n)
	last := len(b.Samples) - 1

	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = b.Samples[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = b.Samples[j]*(1-frac) + b.Samples[j+1]*frac
	}

	b.Samples = out
	b.SampleRate = rate
}

// TrimSilence обрезает тишину в начале и конце. Тишиной считаются кадры,
// RMS которых ниже самого громкого кадра больше чем на topDB децибел.
func (b *Buffer) TrimSilence(topDB float64) {
	n := len(b.Samples)
	if n == 0 {
		return
	}

	numFrames := 1 + n/trimHopLength
	rms := make([]float64, numFrames)
	maxRMS := 0.0
	for i := range rms {
		rms[i] = b.frameRMS(i*trimHopLength - trimFrameLength/2)
		if rms[i] > maxRMS {
			maxRMS = rms[i]
		}
	}

	if maxRMS == 0 {
		b.Samples = b.Samples[:0]
		return
	}

	threshold := maxRMS * math.Pow(10, -topDB/20)
	first, last := -1, -1
	for i, v := range rms {
		if v > threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	start := first * trimHopLength
	end := (last + 1) * trimHopLength
	if end > n {
		end = n
	}
	b.Samples = b.Samples[start:end]
}

// frameRMS считает RMS кадра, дополняя края нулями
func (b *Buffer) frameRMS(from int) float64 {
	sum := 0.0
	for i := from; i < from+trimFrameLength; i++ {
		if i < 0 || i >= len(b.Samples) {
			continue
		}
		sum += b.Samples[i] * b.Samples[i]
	}
	return math.Sqrt(sum / trimFrameLength)
}

// Normalize приводит пиковую амплитуду к 1
func (b *Buffer) Normalize() {
	peak := 0.0
	for _, s := range b.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range b.Samples {
		b.Samples[i] /= peak
	}
}

// PreEmphasis применяет фильтр первого порядка y[n] = x[n] - coef*x[n-1].
// Для первого отсчета предыдущее значение экстраполируется как 2*x[0] - x[1].
func (b *Buffer) PreEmphasis(coef float64) {
	n := len(b.Samples)
	if n == 0 || coef == 0 {
		return
	}

	prev := b.Samples[0]
	if n > 1 {
		prev = 2*b.Samples[0] - b.Samples[1]
	}
	for i := 0; i < n; i++ {
		cur := b.Samples[i]
		b.Samples[i] = cur - coef*prev
		prev = cur
	}
}
