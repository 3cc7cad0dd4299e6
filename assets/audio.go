package assets

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/h2non/filetype"
)

const (
	RIFF_MAGIC      = 0x46464952 // "RIFF"
	RIFF_TYPE_WAVE  = 0x45564157 // "WAVE"
	RIFF_CHUNK_FMT  = 0x20746d66 // "fmt "
	RIFF_CHUNK_DATA = 0x61746164 // "data"
)

type AudioInfo struct {
	Format        string
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataSize      uint32
	Duration      float64 // seconds, wav only
}

func init() {
	SetProber(TYPE_AUDIO, ProbeAudio)
}

// ProbeAudio parses wav headers for the full picture; compressed
// containers (ogg, mp3, flac) are only identified, their decode belongs
// to the viewer.
func ProbeAudio(d Descriptor, r *io.SectionReader) (interface{}, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("[assets] Cannot read %q header: %v", d.Name, err)
	}

	if binary.LittleEndian.Uint32(header[0:]) == RIFF_MAGIC &&
		binary.LittleEndian.Uint32(header[8:]) == RIFF_TYPE_WAVE {
		info, err := probeWave(r)
		if err != nil {
			return nil, fmt.Errorf("[assets] Bad wav %q: %v", d.Name, err)
		}
		return info, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	head, err := ioutil.ReadAll(io.LimitReader(r, 262))
	if err != nil {
		return nil, err
	}
	if filetype.IsAudio(head) {
		if t, err := filetype.Match(head); err == nil {
			return &AudioInfo{Format: t.Extension}, nil
		}
	}
	return nil, fmt.Errorf("[assets] %q does not look like audio", d.Name)
}

// probeWave walks riff chunks after the 12 byte header.
func probeWave(r *io.SectionReader) (*AudioInfo, error) {
	info := &AudioInfo{Format: "wav"}
	haveFmt := false

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		id := binary.LittleEndian.Uint32(chunkHeader[0:])
		size := binary.LittleEndian.Uint32(chunkHeader[4:])

		switch id {
		case RIFF_CHUNK_FMT:
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return nil, fmt.Errorf("Truncated fmt chunk: %v", err)
			}
			info.Channels = binary.LittleEndian.Uint16(fmtChunk[2:])
			info.SampleRate = binary.LittleEndian.Uint32(fmtChunk[4:])
			info.BitsPerSample = binary.LittleEndian.Uint16(fmtChunk[14:])
			haveFmt = true
			if size > 16 {
				if _, err := r.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return nil, err
				}
			}
		case RIFF_CHUNK_DATA:
			info.DataSize = size
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		default:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		}

		// chunks are word aligned
		if size%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				return nil, err
			}
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("No fmt chunk")
	}
	if byteRate := uint32(info.Channels) * info.SampleRate * uint32(info.BitsPerSample) / 8; byteRate > 0 {
		info.Duration = float64(info.DataSize) / float64(byteRate)
	}
	return info, nil
}
