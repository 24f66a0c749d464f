package synth

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"
)

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// WriteWAV writes mono 16-bit little endian PCM with a RIFF header.
func WriteWAV(w io.Writer, samples []int16, sampleRate int) error {
	dataSize := uint32(len(samples) * 2)
	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return errors.Wrap(err, "could not write wav header")
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return errors.Wrap(err, "could not write samples")
	}
	return nil
}

// WAVSink renders the playlist and writes it to W as a WAV file.
type WAVSink struct {
	W      io.Writer
	Config Config
}

func (s *WAVSink) Play(ctx context.Context, playlist model.Playlist) error {
	samples, err := Render(playlist, s.Config)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteWAV(s.W, samples, s.Config.SampleRate)
}
