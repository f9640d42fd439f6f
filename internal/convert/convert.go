// Package convert is the boundary to the external raw→netCDF converter.
// The conversion itself (parsing the instrument's binary format) is not this
// library's business; it is treated as an opaque call with a single
// success/failure outcome.
package convert

import "context"

// Request describes one conversion.
type Request struct {
	// RawPath is the local path of the downloaded .raw recording.
	RawPath string
	// OutputDir is where the converted container is written; created if
	// absent.
	OutputDir string
	// SonarModel names the instrument (EK60, EK80, …); converters validate
	// it against the file's embedded header.
	SonarModel string
	// Overwrite replaces an existing output file instead of failing.
	Overwrite bool
}

// Converter turns a raw recording into a netCDF container.
type Converter interface {
	// Convert runs one conversion and returns the path of the produced
	// netCDF file. Failures are conversion_failed errors wrapping the
	// underlying cause.
	Convert(ctx context.Context, req Request) (string, error)

	// Version reports the converter tool's version string, recorded in the
	// metadata sidecar of every converted artifact.
	Version(ctx context.Context) string
}
