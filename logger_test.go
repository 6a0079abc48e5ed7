package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRunLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newRunLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("story image saved", "path", "images/a.png")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "story image saved")
	assert.Contains(t, out, "run_id=")
	assert.Contains(t, out, "path=images/a.png")
}

func TestNewRunLogger_UniqueRunIDs(t *testing.T) {
	var a, b bytes.Buffer
	newRunLogger(&a, slog.LevelInfo).Info("x")
	newRunLogger(&b, slog.LevelInfo).Info("x")

	assert.NotEqual(t, a.String(), b.String())
}
