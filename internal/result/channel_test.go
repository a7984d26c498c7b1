package result

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pipes struct {
	primaryR, primaryW *os.File
	diagR, diagW       *os.File
}

func newPipes(t *testing.T) *pipes {
	t.Helper()
	p := &pipes{}
	var err error
	p.primaryR, p.primaryW, err = os.Pipe()
	require.NoError(t, err)
	p.diagR, p.diagW, err = os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		p.primaryR.Close()
		p.diagR.Close()
	})
	return p
}

// drain закрывает пишущие концы и возвращает все, что попало в оба потока
func (p *pipes) drain(t *testing.T) (string, string) {
	t.Helper()
	require.NoError(t, p.primaryW.Close())
	require.NoError(t, p.diagW.Close())
	primary, err := io.ReadAll(p.primaryR)
	require.NoError(t, err)
	diag, err := io.ReadAll(p.diagR)
	require.NoError(t, err)
	return string(primary), string(diag)
}

// decodeSingle проверяет, что в выводе ровно один корректный JSON документ
func decodeSingle(t *testing.T, out string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), "вывод: %q", out)
	return doc
}

type outcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func TestChannel_NoiseGoesToDiagnostics(t *testing.T) {
	p := newPipes(t)
	ch := Open(zap.NewNop(), p.primaryW, p.diagW)
	require.False(t, ch.Degraded())

	// Шум сторонней библиотеки в stdout
	_, err := p.primaryW.WriteString("Loading checkpoint shards: 100%\n")
	require.NoError(t, err)

	require.NoError(t, ch.Emit(outcome{Success: true}))
	require.NoError(t, ch.Close())

	primary, diag := p.drain(t)
	assert.Equal(t, "{\"success\":true}\n", primary)
	assert.Equal(t, true, decodeSingle(t, primary)["success"])
	assert.Equal(t, "Loading checkpoint shards: 100%\n", diag)
}

func TestChannel_EmitOnlyOnce(t *testing.T) {
	p := newPipes(t)
	ch := Open(zap.NewNop(), p.primaryW, p.diagW)

	require.NoError(t, ch.Emit(outcome{Success: false, Error: "Validation failed"}))
	assert.ErrorIs(t, ch.Emit(outcome{Success: true}), ErrAlreadyEmitted)
	require.NoError(t, ch.Close())

	primary, _ := p.drain(t)
	doc := decodeSingle(t, primary)
	assert.Equal(t, false, doc["success"])
	assert.Equal(t, "Validation failed", doc["error"])
}

func TestChannel_CloseRestoresPrimary(t *testing.T) {
	p := newPipes(t)
	ch := Open(zap.NewNop(), p.primaryW, p.diagW)
	require.NoError(t, ch.Emit(outcome{Success: true}))
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	_, err := p.primaryW.WriteString("after\n")
	require.NoError(t, err)

	primary, diag := p.drain(t)
	assert.Equal(t, "{\"success\":true}\nafter\n", primary)
	assert.Empty(t, diag)
}

func TestChannel_DegradedWhenDupFails(t *testing.T) {
	p := newPipes(t)
	ops := systemFDOps()
	ops.dup = func(int) (int, error) { return -1, errors.New("EMFILE") }

	ch := open(zap.NewNop(), p.primaryW, p.diagW, ops)
	require.True(t, ch.Degraded())

	require.NoError(t, ch.Emit(outcome{Success: true}))
	require.NoError(t, ch.Close())

	primary, diag := p.drain(t)
	assert.Equal(t, true, decodeSingle(t, primary)["success"])
	assert.Empty(t, diag)
}

func TestChannel_RedirectFailureKeepsResultHandle(t *testing.T) {
	p := newPipes(t)
	ops := systemFDOps()
	ops.dup2 = func(int, int) error { return errors.New("EBADF") }

	ch := open(zap.NewNop(), p.primaryW, p.diagW, ops)
	require.False(t, ch.Degraded())

	require.NoError(t, ch.Emit(outcome{Success: true}))
	require.NoError(t, ch.Close())

	primary, _ := p.drain(t)
	assert.Equal(t, true, decodeSingle(t, primary)["success"])
}

func TestChannel_EmitAfterClose(t *testing.T) {
	p := newPipes(t)
	ch := Open(zap.NewNop(), p.primaryW, p.diagW)
	require.NoError(t, ch.Close())

	assert.Error(t, ch.Emit(outcome{Success: true}))

	primary, _ := p.drain(t)
	assert.Empty(t, primary)
}
