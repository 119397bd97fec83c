package sampleio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_ConvertCU8_midpointIsDC(t *testing.T) {
	dst := make([]complex64, 1)
	n, err := Convert(dst, []byte{128, 128}, CU8)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, complex64(0), dst[0])
}

func Test_ConvertCU8_fullScale(t *testing.T) {
	dst := make([]complex64, 1)
	_, err := Convert(dst, []byte{255, 0}, CU8)
	require.NoError(t, err)
	assert.InDelta(t, float32(127)/128, real(dst[0]), 1e-6)
	assert.InDelta(t, float32(-128)/128, imag(dst[0]), 1e-6)
}

func Test_ConvertCS16_roundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int16(16384)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int16(-16384)))

	dst := make([]complex64, 1)
	n, err := Convert(dst, buf.Bytes(), CS16)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.InDelta(t, 0.5, real(dst[0]), 1e-6)
	assert.InDelta(t, -0.5, imag(dst[0]), 1e-6)
}

func Test_ConvertCF32_isPassThrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(0.25)))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(-0.75)))

	dst := make([]complex64, 1)
	_, err := Convert(dst, buf.Bytes(), CF32)
	require.NoError(t, err)
	assert.Equal(t, complex64(complex(0.25, -0.75)), dst[0])
}

func Test_Convert_truncatesToShorterOfSrcOrDst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		format := Format(rapid.IntRange(0, 2).Draw(t, "format"))
		nSamples := rapid.IntRange(0, 8).Draw(t, "nSamples")
		dstCap := rapid.IntRange(0, 8).Draw(t, "dstCap")

		src := make([]byte, nSamples*format.BytesPerSample())
		dst := make([]complex64, dstCap)

		n, err := Convert(dst, src, format)
		require.NoError(t, err)

		want := nSamples
		if dstCap < want {
			want = dstCap
		}
		assert.Equal(t, want, n)
	})
}

func Test_Convert_unsupportedFormat(t *testing.T) {
	_, err := Convert(make([]complex64, 1), []byte{0, 0}, Format(99))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func buildWAVHeader(sampleRate uint32, channels, formatTag uint16) []byte {
	raw := rawWAVHeader{
		GroupID:         riffGroupID,
		RIFFType:        riffType,
		ChunkID:         0x20746d66, // "fmt "
		WFormatTag:      formatTag,
		WChannels:       channels,
		DwSamplesPerSec: sampleRate,
		DataID:          wavDataID,
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, raw)
	return buf.Bytes()
}

func Test_ParseWAVHeader_valid(t *testing.T) {
	hdr, err := ParseWAVHeader(bytes.NewReader(buildWAVHeader(48000, 2, wavFormatIEEEFloat)))
	require.NoError(t, err)
	assert.Equal(t, uint32(48000), hdr.SampleRate)
	assert.Equal(t, uint16(2), hdr.Channels)
	assert.Equal(t, uint16(wavFormatIEEEFloat), hdr.FormatTag)
}

func Test_ParseWAVHeader_rejectsWrongChannelCount(t *testing.T) {
	_, err := ParseWAVHeader(bytes.NewReader(buildWAVHeader(48000, 1, wavFormatIEEEFloat)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func Test_ParseWAVHeader_rejectsNonFloatFormat(t *testing.T) {
	_, err := ParseWAVHeader(bytes.NewReader(buildWAVHeader(48000, 2, 1)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func Test_ParseWAVHeader_rejectsShortInput(t *testing.T) {
	_, err := ParseWAVHeader(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}
