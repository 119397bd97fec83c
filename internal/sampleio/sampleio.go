// Package sampleio implements the sample-format adapters: conversion of the
// wire/file representations CU8, CS16 and CF32 into normalised complex64
// baseband samples, and WAV container validation.
package sampleio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrUnsupportedFormat is returned when a WAV header fails validation, or
// when an unknown raw sample format is requested.
var ErrUnsupportedFormat = errors.New("ais: unsupported sample format")

// Format names the on-wire representation of one complex sample.
type Format int

const (
	// CU8 is a pair of unsigned bytes, DC bias 128, scale 128.
	CU8 Format = iota
	// CS16 is a pair of little-endian signed 16-bit integers, scale 32768.
	CS16
	// CF32 is a pair of little-endian 32-bit floats, pass-through.
	CF32
)

// BytesPerSample reports the on-wire size, in bytes, of one complex sample
// in the given format.
func (f Format) BytesPerSample() int {
	switch f {
	case CU8:
		return 2
	case CS16:
		return 4
	case CF32:
		return 8
	default:
		return 0
	}
}

// Convert decodes raw bytes of the given Format into normalised complex64
// samples, writing as many whole samples as fit in dst and src allow. It
// returns the number of samples written.
func Convert(dst []complex64, src []byte, format Format) (int, error) {
	switch format {
	case CU8:
		return convertCU8(dst, src), nil
	case CS16:
		return convertCS16(dst, src), nil
	case CF32:
		return convertCF32(dst, src), nil
	default:
		return 0, ErrUnsupportedFormat
	}
}

func convertCU8(dst []complex64, src []byte) int {
	n := len(src) / 2
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		re := (float32(src[2*i]) - 128) / 128
		im := (float32(src[2*i+1]) - 128) / 128
		dst[i] = complex(re, im)
	}
	return n
}

func convertCS16(dst []complex64, src []byte) int {
	n := len(src) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		re := int16(binary.LittleEndian.Uint16(src[4*i:]))
		im := int16(binary.LittleEndian.Uint16(src[4*i+2:]))
		dst[i] = complex(float32(re)/32768, float32(im)/32768)
	}
	return n
}

func convertCF32(dst []complex64, src []byte) int {
	n := len(src) / 8
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		re := math.Float32frombits(binary.LittleEndian.Uint32(src[8*i:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(src[8*i+4:]))
		dst[i] = complex(re, im)
	}
	return n
}

// WAVHeader is the subset of the 44-byte RIFF/WAVE header this module
// validates.
type WAVHeader struct {
	SampleRate uint32
	Channels   uint16
	FormatTag  uint16
}

const (
	riffGroupID        = 0x46464952 // "RIFF"
	riffType           = 0x45564157 // "WAVE"
	wavDataID          = 0x61746164 // "data"
	wavFormatIEEEFloat = 3
)

type rawWAVHeader struct {
	GroupID          uint32
	Size             uint32
	RIFFType         uint32
	ChunkID          uint32
	ChunkSize        uint32
	WFormatTag       uint16
	WChannels        uint16
	DwSamplesPerSec  uint32
	DwAvgBytesPerSec uint32
	WBlockAlign      uint16
	WBitsPerSample   uint16
	DataID           uint32
	DataSize         uint32
}

// ParseWAVHeader reads and validates the standard 44-byte RIFF/WAVE header:
// groupID "RIFF", riffType "WAVE", dataID "data", wFormatTag=3 (IEEE
// float), wChannels=2. Any mismatch is reported as ErrUnsupportedFormat.
func ParseWAVHeader(r io.Reader) (WAVHeader, error) {
	var raw rawWAVHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return WAVHeader{}, err
	}

	switch {
	case raw.GroupID != riffGroupID,
		raw.RIFFType != riffType,
		raw.DataID != wavDataID,
		raw.WFormatTag != wavFormatIEEEFloat,
		raw.WChannels != 2:
		return WAVHeader{}, ErrUnsupportedFormat
	}

	return WAVHeader{
		SampleRate: raw.DwSamplesPerSec,
		Channels:   raw.WChannels,
		FormatTag:  raw.WFormatTag,
	}, nil
}
