// Package inventory loads, scans, and writes the on-disk model file
// inventory for ModelCheck.
package inventory

import (
	"math"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	bytesPerMB = 1 << 20
	bytesPerGB = 1 << 30
)

// ModelRecord is one physical model file entry. Filename may carry a
// relative subpath below the scanned root (FLUX/model.safetensors);
// Directory is always the absolute path of the file's immediate parent.
// Records are immutable after loading.
type ModelRecord struct {
	Filename  string
	Directory string
	FileDate  string
	SizeBytes int64
}

// SizeMB returns the file size in binary megabytes, rounded to 2 decimals.
func (m ModelRecord) SizeMB() float64 {
	return BytesToMB(m.SizeBytes)
}

// SizeGB returns the file size in binary gigabytes, rounded to 2 decimals.
func (m ModelRecord) SizeGB() float64 {
	return BytesToGB(m.SizeBytes)
}

// Path returns the absolute on-disk path of the file: Directory joined with
// the basename of Filename (the subpath part of Filename is already part of
// Directory).
func (m ModelRecord) Path() string {
	base := path.Base(strings.ReplaceAll(m.Filename, "\\", "/"))
	return filepath.Join(m.Directory, base)
}

// BytesToMB converts a byte count to binary megabytes (divide by 1,048,576)
// rounded to 2 decimal places.
func BytesToMB(n int64) float64 {
	return math.Round(float64(n)/bytesPerMB*100) / 100
}

// BytesToGB converts a byte count to binary gigabytes (divide by
// 1,073,741,824) rounded to 2 decimal places.
func BytesToGB(n int64) float64 {
	return math.Round(float64(n)/bytesPerGB*100) / 100
}

// FormatMB renders a byte count as a megabyte string with 2 decimals.
func FormatMB(n int64) string {
	return strconv.FormatFloat(BytesToMB(n), 'f', 2, 64)
}

// FormatGB renders a byte count as a gigabyte string with 2 decimals.
func FormatGB(n int64) string {
	return strconv.FormatFloat(BytesToGB(n), 'f', 2, 64)
}
