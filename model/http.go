package model

type ShiftRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type HarmonizeRequest struct {
	Semitones int     `json:"semitones"`
	TimeShift float64 `json:"time_shift"`
}

type PlaylistRequestBody struct {
	Notes     []Note            `json:"notes"`
	Deletes   []Position        `json:"deletes,omitempty"`
	Shift     *ShiftRequest     `json:"shift,omitempty"`
	Harmonize *HarmonizeRequest `json:"harmonize,omitempty"`
}

type HarmonizeStats struct {
	Added      int `json:"added"`
	CrossBar   int `json:"cross_bar"`
	Untabled   int `json:"untabled"`
	OutOfRange int `json:"out_of_range"`
	Probed     int `json:"probed"`
}

type PlaylistResponse struct {
	Playlist   Playlist        `json:"playlist"`
	Duplicates int             `json:"duplicates"`
	Deleted    int             `json:"deleted"`
	Replaced   int             `json:"replaced"`
	Harmony    *HarmonizeStats `json:"harmony,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
