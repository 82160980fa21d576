package wavio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	pcmFormat   = 1
	floatFormat = 3
)

// Clip is a decoded waveform with samples normalized to [-1, 1]
type Clip struct {
	Buffer   *audio.FloatBuffer
	BitDepth int
	Float    bool // source was IEEE float
}

// OutputDepth is the PCM depth used when writing a processed copy of the clip.
// 8-bit sources are widened to 16 and float sources are written as 24-bit PCM.
func (c *Clip) OutputDepth() int {
	switch {
	case c.Float:
		return 24
	case c.BitDepth == 8:
		return 16
	}
	return c.BitDepth
}

// SampleRate of the clip
func (c *Clip) SampleRate() int { return c.Buffer.Format.SampleRate }

// Channels of the clip
func (c *Clip) Channels() int { return c.Buffer.Format.NumChannels }

// Frames is the number of samples per channel
func (c *Clip) Frames() int {
	if c.Channels() == 0 {
		return 0
	}
	return len(c.Buffer.Data) / c.Channels()
}

// Read decodes a WAV file: 8/16/24/32-bit PCM or 32/64-bit IEEE float
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid wav file", path)
	}
	depth := int(d.BitDepth)

	var data []float64
	switch {
	case d.WavAudioFormat == pcmFormat && supported(depth):
		ib, err := d.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("%s: decode: %w", path, err)
		}
		scale := fullScale(depth)
		data = make([]float64, len(ib.Data))
		for i, v := range ib.Data {
			data[i] = float64(v) / scale
		}
	case d.WavAudioFormat == pcmFormat && depth == 8,
		d.WavAudioFormat == floatFormat && (depth == 32 || depth == 64):
		raw, err := rawSamples(d)
		if err != nil {
			return nil, fmt.Errorf("%s: decode: %w", path, err)
		}
		data = convert(raw, depth, d.WavAudioFormat == floatFormat)
	case d.WavAudioFormat == pcmFormat || d.WavAudioFormat == floatFormat:
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, depth)
	default:
		return nil, fmt.Errorf("%s: unsupported wav format %d (want PCM or float)", path, d.WavAudioFormat)
	}

	return &Clip{
		Buffer: &audio.FloatBuffer{
			Format: &audio.Format{
				NumChannels: int(d.NumChans),
				SampleRate:  int(d.SampleRate),
			},
			Data: data,
		},
		BitDepth: depth,
		Float:    d.WavAudioFormat == floatFormat,
	}, nil
}

func rawSamples(d *wav.Decoder) ([]byte, error) {
	if err := d.FwdToPCM(); err != nil {
		return nil, err
	}
	if d.PCMChunk == nil {
		return nil, fmt.Errorf("no data chunk")
	}
	raw := make([]byte, d.PCMChunk.Size)
	if _, err := io.ReadFull(d.PCMChunk.R, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// convert maps little-endian 8-bit unsigned PCM or IEEE float samples to [-1, 1]
func convert(raw []byte, depth int, float bool) []float64 {
	width := depth / 8
	data := make([]float64, len(raw)/width)
	for i := range data {
		b := raw[i*width : (i+1)*width]
		switch {
		case !float:
			data[i] = (float64(b[0]) - 128) / 128
		case depth == 32:
			data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		default:
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	}
	return data
}

// Write encodes buf as PCM at bitDepth, clipping samples outside [-1, 1]
func Write(path string, buf *audio.FloatBuffer, bitDepth int) (err error) {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("%s: buffer has no format", path)
	}
	if !supported(bitDepth) {
		return fmt.Errorf("%s: unsupported bit depth %d", path, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	scale := fullScale(bitDepth)
	ints := make([]int, len(buf.Data))
	for i, v := range buf.Data {
		s := math.Round(v * scale)
		ints[i] = int(math.Max(-scale, math.Min(scale-1, s)))
	}

	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, pcmFormat)
	if err := enc.Write(&audio.IntBuffer{
		Format:         buf.Format,
		Data:           ints,
		SourceBitDepth: bitDepth,
	}); err != nil {
		return fmt.Errorf("%s: encode: %w", path, err)
	}
	return enc.Close()
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

func supported(bitDepth int) bool {
	switch bitDepth {
	case 16, 24, 32:
		return true
	}
	return false
}
