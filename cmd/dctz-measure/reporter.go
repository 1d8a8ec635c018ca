package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintSource prints a summary of the measured field.
func PrintSource(w io.Writer, name string, dtype fmt.Stringer, dims []int, workers int) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "  Field:    %s\n", name)
	fmt.Fprintf(w, "  Type:     %s\n", dtype)
	fmt.Fprintf(w, "  Dims:     %v\n", dims)
	if workers == 0 {
		fmt.Fprintf(w, "  Workers:  all CPUs\n")
	} else {
		fmt.Fprintf(w, "  Workers:  %d\n", workers)
	}
	fmt.Fprintln(w)
}

// PrintResults prints the measurements as a table.
func PrintResults(w io.Writer, ms []Measurement) {
	fmt.Fprintln(w, "=== Measurement Results ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-10s | %-5s | %-5s | %-12s | %-8s | %-10s | %-10s | %-8s | %-6s\n",
		"Bound", "Block", "Stage", "Size", "Ratio", "Bits/Val", "Max Err", "PSNR", "Raw")
	fmt.Fprintln(w, strings.Repeat("-", 98))

	for _, m := range ms {
		fmt.Fprintf(w, "%-10.1e | %-5d | %-5s | %-12s | %-8s | %-10.3f | %-10.3e | %-8.2f | %-6d\n",
			m.ErrorBound,
			m.BlockSize,
			m.Compression,
			formatNumber(m.Stats.CompressedSize),
			fmt.Sprintf("%.2fx", m.Stats.Ratio()),
			m.Stats.BitsPerValue(),
			m.Report.MaxAbsError,
			m.Report.PSNR,
			m.Stats.RawBlocks)
	}
	fmt.Fprintln(w)
}

// PrintFits prints the rate models of every group.
func PrintFits(w io.Writer, fits []Fit) {
	fmt.Fprintln(w, "=== Rate Models (bits/value vs log2(1/e)) ===")
	fmt.Fprintln(w)

	for _, f := range fits {
		fmt.Fprintf(w, "Block %d, %s:\n", f.BlockSize, f.Compression)
		for _, m := range f.Models {
			marker := " "
			if m.Type == f.BestFit.Type {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %-12s a=%-10.4f b=%-10.4f R²=%.4f\n", marker, m.Type, m.A, m.B, m.RSquared)
		}
	}
	fmt.Fprintln(w)
}

var csvHeader = []string{
	"error_bound", "block_size", "compression", "compressed_bytes", "ratio",
	"bits_per_value", "max_abs_error", "rmse", "psnr", "zero_blocks", "raw_blocks",
	"encode_ns", "decode_ns",
}

// WriteCSV writes one row per measurement.
func WriteCSV(w io.Writer, ms []Measurement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, m := range ms {
		row := []string{
			strconv.FormatFloat(m.ErrorBound, 'g', -1, 64),
			strconv.Itoa(m.BlockSize),
			m.Compression.String(),
			strconv.FormatInt(m.Stats.CompressedSize, 10),
			strconv.FormatFloat(m.Stats.Ratio(), 'f', 4, 64),
			strconv.FormatFloat(m.Stats.BitsPerValue(), 'f', 4, 64),
			strconv.FormatFloat(m.Report.MaxAbsError, 'g', 6, 64),
			strconv.FormatFloat(m.Report.RMSE, 'g', 6, 64),
			strconv.FormatFloat(m.Report.PSNR, 'f', 2, 64),
			strconv.Itoa(m.Stats.ZeroBlocks),
			strconv.Itoa(m.Stats.RawBlocks),
			strconv.FormatInt(m.Encode.Nanoseconds(), 10),
			strconv.FormatInt(m.Decode.Nanoseconds(), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// formatNumber formats an integer with thousand separators.
func formatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
