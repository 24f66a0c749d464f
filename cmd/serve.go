package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/notetree/arrange"
	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/score"
	"github.com/jsphweid/notetree/synth"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxRequestBytes = 1 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves playlist arrangement and rendering over HTTP`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// Setup loads configuration and the frequency table outside of the
// command line, for tests that drive the handlers directly.
func Setup() error {
	return setup()
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("could not write response", "err", err)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (model.PlaylistRequestBody, bool) {
	var input model.PlaylistRequestBody
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
		return input, false
	}
	if len(input.Notes) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("at least one note is required"))
		return input, false
	}
	for i, n := range input.Notes {
		if err := n.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrapf(err, "note %d", i))
			return input, false
		}
	}
	return input, true
}

// arrangeRequest builds a fresh tree per request, so handlers never share
// one.
func arrangeRequest(input model.PlaylistRequestBody) (model.PlaylistResponse, error) {
	var resp model.PlaylistResponse
	tree, duplicates := score.Build(input.Notes, table, logger)
	defer tree.Teardown()

	res, err := arrange.Apply(tree, arrange.FromRequest(input))
	if err != nil {
		return resp, err
	}
	resp.Playlist = tree.Playlist()
	resp.Duplicates = duplicates
	resp.Deleted = res.Deleted
	resp.Replaced = res.Replaced
	resp.Harmony = res.Harmony
	return resp, nil
}

func HandlePlaylist(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	resp, err := arrangeRequest(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

func HandleRender(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	resp, err := arrangeRequest(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	sink := &synth.WAVSink{W: &buf, Config: cfg.Synth()}
	if err := sink.Play(r.Context(), resp.Playlist); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, synth.ErrTooLong) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	id := uuid.New().String()
	logger.Info("rendered playlist", "id", id, "notes", len(resp.Playlist), "bytes", buf.Len())
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".wav"))
	w.Header().Set("X-Render-Id", id)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debug("could not write render", "id", id, "err", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "ok"})
}

func newRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/playlist", HandlePlaylist).Methods("POST")
	router.HandleFunc("/render", HandleRender).Methods("POST")
	router.HandleFunc("/health", handleHealth).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

func serve() error {
	logger.Info("listening", "addr", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, newRouter())
}
