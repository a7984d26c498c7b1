package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpeakers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"один говорящий", "Alice", []string{"Alice"}},
		{"пробелы и пустые элементы", " Alice , Bob,, ", []string{"Alice", "Bob"}},
		{"повторы отбрасываются", "Alice,Bob,Alice", []string{"Alice", "Bob"}},
		{"повторы без учета регистра", "Alice,alice,BOB,bob", []string{"Alice", "BOB"}},
		{"пустая строка", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSpeakers(tt.raw))
		})
	}
}

func TestOutcome_JSON(t *testing.T) {
	var size int64
	success := Outcome{Kind: KindSuccess, Success: true, OutputFile: "out.wav", FileSizeBytes: &size}

	data, err := json.Marshal(success)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file_size_bytes":0`)
	assert.NotContains(t, string(data), `"error"`)

	data, err = json.Marshal(Failure(KindTimeout, ErrorTimeout, "Operation took longer than 300 seconds"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Synthesis timeout","details":"Operation took longer than 300 seconds"}`, string(data))
	assert.Equal(t, 1, Failure(KindTimeout, ErrorTimeout, nil).ExitCode())
}
