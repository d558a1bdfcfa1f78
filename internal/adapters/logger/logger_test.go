package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("resolved 2 products")

	g := goldie.New(t)
	g.Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("artifact cache is stale")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("disk full"),
			goldenName: "error_standard",
		},
		{
			name:       "zerr chain",
			err:        zerr.Wrap(zerr.Wrap(errors.New("unexpected EOF"), "failed to read archive"), "corrupt artifact"),
			goldenName: "error_chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.Wrap(errors.New("root cause"), "outer"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, []any{"outer", "root cause"}, record["causes"])
}

func TestLogger_SetOutputKeepsMode(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Info("hello")

	assert.True(t, json.Valid(buf.Bytes()))
}

func TestCollectErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{name: "standard error", err: errors.New("simple"), want: []string{"simple"}},
		{name: "single zerr", err: zerr.New("zerr error"), want: []string{"zerr error"}},
		{
			name: "wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			want: []string{"outer layer", "middle layer", "root cause"},
		},
		{
			name: "metadata does not add a layer",
			err:  zerr.With(zerr.New("base error"), "key", "value"),
			want: []string{"base error"},
		},
		{name: "nil", err: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorMessages(tt.err))
		})
	}
}

func TestFormatErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{name: "single", messages: []string{"single error"}, want: "Error: single error"},
		{
			name:     "caused by",
			messages: []string{"outer", "inner"},
			want:     "Error: outer\n\n  Caused by:\n    → inner",
		},
		{
			name:     "multiline",
			messages: []string{"line1\nline2", "cause1\ncause2"},
			want:     "Error: line1\n       line2\n\n  Caused by:\n    → cause1\n      cause2",
		},
		{name: "empty", messages: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorMessages(tt.messages))
		})
	}
}
