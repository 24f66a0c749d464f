package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/notetree/config"
	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/midi"
	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cfg = config.Default()
	cfg.SampleRate = 8000
	cfg.BarDurationMs = 500
	table = freqtable.Default()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

func hz(t *testing.T, name string) float64 {
	f, err := table.FrequencyOf(name)
	require.NoError(t, err)
	return f
}

func post(t *testing.T, path string, body any) *http.Response {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)
	return w.Result()
}

func TestPlaylistEndpoint(t *testing.T) {
	resp := post(t, "/playlist", model.PlaylistRequestBody{
		Notes: []model.Note{
			{Frequency: hz(t, "G4"), Bar: 1, SubIndex: 0},
			{Frequency: hz(t, "C4"), Bar: 0, SubIndex: 0},
			{Frequency: hz(t, "E4"), Bar: 0, SubIndex: 0.5},
			{Frequency: hz(t, "E4"), Bar: 0, SubIndex: 0.5},
		},
		Shift:     &model.ShiftRequest{From: "C4", To: "D4"},
		Harmonize: &model.HarmonizeRequest{Semitones: 12, TimeShift: 0.25},
	})
	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)

	var body model.PlaylistResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(1, body.Duplicates)
	assert.Equal(1, body.Replaced)
	require.NotNil(t, body.Harmony)
	assert.Equal(3, body.Harmony.Added)
	assert.Equal(model.Playlist{
		{Frequency: hz(t, "D4"), Bar: 0, SubIndex: 0},
		{Frequency: hz(t, "D5"), Bar: 0, SubIndex: 0.25},
		{Frequency: hz(t, "E4"), Bar: 0, SubIndex: 0.5},
		{Frequency: hz(t, "E5"), Bar: 0, SubIndex: 0.75},
		{Frequency: hz(t, "G4"), Bar: 1, SubIndex: 0},
		{Frequency: hz(t, "G5"), Bar: 1, SubIndex: 0.25},
	}, body.Playlist)
}

func TestPlaylistEndpointErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   any
		detail string
	}{
		{"unknown note", model.PlaylistRequestBody{
			Notes: []model.Note{{Frequency: 440}},
			Shift: &model.ShiftRequest{From: "A4", To: "Z9"},
		}, "unknown note name"},
		{"no notes", model.PlaylistRequestBody{}, "at least one note"},
		{"bad index", model.PlaylistRequestBody{
			Notes: []model.Note{{Frequency: 440, SubIndex: 1.5}},
		}, "note 0"},
		{"unknown field", map[string]any{"chords": 1}, "could not decode"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := post(t, "/playlist", c.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var e model.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Contains(t, e.Error, c.detail)
		})
	}
}

func TestRenderEndpoint(t *testing.T) {
	resp := post(t, "/render", model.PlaylistRequestBody{
		Notes: []model.Note{{Frequency: hz(t, "A4"), Bar: 0, SubIndex: 0}},
	})
	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("audio/wav", resp.Header.Get("Content-Type"))
	assert.NotEmpty(resp.Header.Get("X-Render-Id"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal("RIFF", string(data[:4]))
}

func TestRenderEndpointRejectsOverlongPlaylist(t *testing.T) {
	resp := post(t, "/render", model.PlaylistRequestBody{
		Notes: []model.Note{{Frequency: hz(t, "A4"), Bar: model.MaxBar, SubIndex: 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Contains(t, e.Error, "too long")

	resp = post(t, "/render", model.PlaylistRequestBody{
		Notes: []model.Note{{Frequency: hz(t, "A4"), Bar: 1 << 50, SubIndex: 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestWriteFailuresAreLogged(t *testing.T) {
	var logs bytes.Buffer
	saved := logger
	logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { logger = saved }()

	w := &brokenWriter{ResponseRecorder: httptest.NewRecorder()}
	handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, logs.String(), "could not write response")
	assert.Contains(t, logs.String(), "connection reset")

	logs.Reset()
	data, err := json.Marshal(model.PlaylistRequestBody{
		Notes: []model.Note{{Frequency: hz(t, "A4")}},
	})
	require.NoError(t, err)
	w = &brokenWriter{ResponseRecorder: httptest.NewRecorder()}
	HandleRender(w, httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(data)))
	assert.Contains(t, logs.String(), "could not write render")
}

func TestHealthAndCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/playlist", nil)
	w = httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func writeScore(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "song.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRenderWritesWavAndMidi(t *testing.T) {
	scorePath := writeScore(t, "0 0 C4\n0 0.5 E4\n1 0 G4\n")
	dir := t.TempDir()
	out := filepath.Join(dir, "song.wav")
	midiPath := filepath.Join(dir, "song.mid")

	flags := &arrangeFlags{harmonize: true, interval: "C4:G4", timeShift: 0.25, deletes: []string{"1:0"}}
	got, err := render(context.Background(), scorePath, out, midiPath, flags)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.FileExists(t, out)

	s, err := midi.ReadMidiFile(midiPath)
	require.NoError(t, err)
	notes, err := midi.Notes(s, table, cfg.BeatsPerBar)
	require.NoError(t, err)
	assert.Equal(t, []model.Note{
		{Frequency: hz(t, "C4"), Bar: 0, SubIndex: 0},
		{Frequency: hz(t, "G4"), Bar: 0, SubIndex: 0.25},
		{Frequency: hz(t, "E4"), Bar: 0, SubIndex: 0.5},
		{Frequency: hz(t, "B4"), Bar: 0, SubIndex: 0.75},
	}, notes)
}

func TestRenderDefaultsToOutDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTETREE_OUT_PATH", dir)
	got, err := render(context.Background(), writeScore(t, "0 0 C4\n"), "", "", &arrangeFlags{})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(got))
	assert.Equal(t, ".wav", filepath.Ext(got))
}

func TestArrangeFlags(t *testing.T) {
	f := &arrangeFlags{deletes: []string{"2:0.5"}, interval: "C4:E4"}
	o, err := f.options()
	require.NoError(t, err)
	assert.Equal(t, []model.Position{{Bar: 2, SubIndex: 0.5}}, o.Deletes)
	assert.True(t, o.Harmonize)
	assert.Equal(t, "C4", o.IntervalFrom)
	assert.Equal(t, "E4", o.IntervalTo)

	_, err = (&arrangeFlags{deletes: []string{"2"}}).options()
	assert.Error(t, err)
	_, err = (&arrangeFlags{interval: "C4"}).options()
	assert.Error(t, err)
}
