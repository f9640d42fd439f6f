package artifact

import (
	"strings"

	"github.com/seabeam/echofetch/internal/errs"
)

// FileType is the closed set of artifact kinds tied to a recording. Key
// derivation matches exhaustively on it; there is no stringly dispatch.
type FileType int

const (
	TypeRaw      FileType = iota // .raw sensor recording
	TypeIndex                    // .idx companion index
	TypeBottom                   // .bot bottom-detection companion
	TypeNetCDF                   // .nc converted scientific container
	TypeMetadata                 // sidecar metadata record
	TypeJSON                     // survey-level json document
)

func (t FileType) String() string {
	switch t {
	case TypeRaw:
		return "raw"
	case TypeIndex:
		return "idx"
	case TypeBottom:
		return "bot"
	case TypeNetCDF:
		return "netcdf"
	case TypeMetadata:
		return "metadata"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFileType converts a file type or extension string (with or without
// the leading dot) into a FileType.
func ParseFileType(v string) (FileType, error) {
	switch strings.ToLower(strings.TrimPrefix(v, ".")) {
	case "raw":
		return TypeRaw, nil
	case "idx":
		return TypeIndex, nil
	case "bot":
		return TypeBottom, nil
	case "nc", "netcdf":
		return TypeNetCDF, nil
	case "metadata":
		return TypeMetadata, nil
	case "json":
		return TypeJSON, nil
	default:
		return 0, errs.Newf(errs.ErrKindInvalidIdentity, "unsupported file type %q", v)
	}
}

// IsRawFamily reports whether t lives under the raw data branch of a storage
// key (the original recording and its instrument companions).
func (t FileType) IsRawFamily() bool {
	return t == TypeRaw || t == TypeIndex || t == TypeBottom
}

// IsConverted reports whether t is a converted scientific container.
func (t FileType) IsConverted() bool {
	return t == TypeNetCDF
}
