package main

import (
	"time"

	"github.com/arloliu/dctz/codec"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quality"
)

// Measurement holds the result of compressing one field with one setting.
type Measurement struct {
	ErrorBound  float64
	BlockSize   int
	Compression format.CompressionType
	Stats       codec.Stats
	Report      quality.Report
	Encode      time.Duration
	Decode      time.Duration
}

// Setting is one point of a sweep.
type Setting struct {
	ErrorBound  float64
	BlockSize   int
	Compression format.CompressionType
}

// Measure compresses arr with s, decompresses the stream and compares the
// reconstruction with arr.
func Measure(arr *ndarray.Array, s Setting, workers int) (Measurement, error) {
	c, err := codec.New(
		codec.WithErrorBound(s.ErrorBound),
		codec.WithBlockSize(s.BlockSize),
		codec.WithCompression(s.Compression),
		codec.WithWorkers(workers),
	)
	if err != nil {
		return Measurement{}, err
	}

	start := time.Now()
	data, stats, err := c.CompressWithStats(arr)
	if err != nil {
		return Measurement{}, err
	}
	encode := time.Since(start)

	start = time.Now()
	restored, err := c.DecompressNew(data)
	if err != nil {
		return Measurement{}, err
	}
	decode := time.Since(start)

	report, err := quality.Compare(arr, restored)
	if err != nil {
		return Measurement{}, err
	}

	return Measurement{
		ErrorBound:  s.ErrorBound,
		BlockSize:   s.BlockSize,
		Compression: s.Compression,
		Stats:       stats,
		Report:      report,
		Encode:      encode,
		Decode:      decode,
	}, nil
}

// Sweep measures every combination of bounds, block sizes and lossless stages,
// in that nesting order.
func Sweep(arr *ndarray.Array, bounds []float64, blocks []int, stages []format.CompressionType, workers int) ([]Measurement, error) {
	results := make([]Measurement, 0, len(bounds)*len(blocks)*len(stages))
	for _, e := range bounds {
		for _, b := range blocks {
			for _, ct := range stages {
				m, err := Measure(arr, Setting{ErrorBound: e, BlockSize: b, Compression: ct}, workers)
				if err != nil {
					return nil, err
				}
				results = append(results, m)
			}
		}
	}

	return results, nil
}
