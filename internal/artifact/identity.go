// Package artifact defines the file identity: the small set of attributes
// that deterministically addresses every artifact of an acoustic recording
// across all storage backends.
package artifact

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/seabeam/echofetch/internal/catalog"
	"github.com/seabeam/echofetch/internal/errs"
)

// Params carries the caller-supplied attributes used to build an Identity.
type Params struct {
	ShipName         string
	SurveyName       string
	Echosounder      string
	DataSource       string
	FileName         string
	FileType         string
	IsMetadata       bool
	IsSurveyMetadata bool
}

// Identity is the validated, immutable identity of one artifact. Build it
// with New; every field is canonical once constructed.
type Identity struct {
	ShipName         string // normalized spelling, used in cache keys
	SurveyName       string
	Echosounder      string
	DataSource       catalog.DataSource
	FileName         string
	FileType         FileType
	IsMetadata       bool
	IsSurveyMetadata bool

	// ArchiveShipName is the caller-supplied spelling. The public archive
	// stores objects under it verbatim, so it must be preserved.
	ArchiveShipName string
	// ICESCode is the platform code of the resolved ship.
	ICESCode string
	// CaptureTime is parsed from the -D/-T tokens of the file name. Zero for
	// names that carry no timestamp (survey metadata documents).
	CaptureTime time.Time
}

var safeComponent = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]*$`)

// fileNamePattern matches archive-convention names such as
// 2107RL_CW-D20210813-T220732.raw.
var fileNamePattern = regexp.MustCompile(
	`^(.+)-D(\d{8})-T(\d{6})\.[A-Za-z0-9]+$`)

// New validates params and returns the canonical Identity. All failures are
// local (no network): unknown_ship, invalid_echosounder, or invalid_identity.
func New(params Params) (*Identity, error) {
	ship, err := catalog.LookupShip(params.ShipName)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateEchosounder(params.Echosounder); err != nil {
		return nil, err
	}
	source, err := catalog.ParseDataSource(params.DataSource)
	if err != nil {
		return nil, err
	}
	fileType, err := ParseFileType(params.FileType)
	if err != nil {
		return nil, err
	}

	if params.IsMetadata && params.IsSurveyMetadata {
		return nil, errs.New(errs.ErrKindInvalidIdentity,
			"at most one of IsMetadata and IsSurveyMetadata may be set")
	}
	for field, v := range map[string]string{
		"survey name": params.SurveyName,
		"file name":   params.FileName,
	} {
		if v == "" {
			return nil, errs.Newf(errs.ErrKindInvalidIdentity, "%s is empty", field)
		}
		if !safeComponent.MatchString(v) || strings.Contains(v, "..") {
			return nil, errs.Newf(errs.ErrKindInvalidIdentity,
				"%s %q contains path-unsafe characters", field, v)
		}
	}

	id := &Identity{
		ShipName:         ship.Name,
		SurveyName:       params.SurveyName,
		Echosounder:      params.Echosounder,
		DataSource:       source,
		FileName:         params.FileName,
		FileType:         fileType,
		IsMetadata:       params.IsMetadata,
		IsSurveyMetadata: params.IsSurveyMetadata,
		ArchiveShipName:  strings.TrimSpace(params.ShipName),
		ICESCode:         ship.ICESCode,
	}

	if err := id.parseFileName(); err != nil {
		return nil, err
	}
	return id, nil
}

// parseFileName extracts the capture datetime and cross-validates the survey
// token the archive embeds in recording names. Raw-family and converted
// names must carry -D/-T tokens; other types (survey documents, readmes) are
// exempt.
func (id *Identity) parseFileName() error {
	m := fileNamePattern.FindStringSubmatch(id.FileName)
	if m == nil {
		if id.FileType.IsRawFamily() || id.FileType.IsConverted() {
			return errs.Newf(errs.ErrKindInvalidIdentity,
				"file name %q does not carry the -Dyyyymmdd-Thhmmss tokens", id.FileName)
		}
		return nil
	}

	ts, err := time.Parse("20060102 150405", m[2]+" "+m[3])
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidIdentity,
			"file name carries an unparseable capture datetime", err)
	}
	id.CaptureTime = ts.UTC()

	// Leading token, e.g. "2107RL" from "2107RL_CW". Legacy names use other
	// shapes; the cross-check only applies to the digits+letters convention.
	token, _, _ := strings.Cut(m[1], "_")
	tokenDigits, tokenLetters := splitToken(token)
	if tokenDigits == "" || tokenLetters == "" || tokenDigits+tokenLetters != token {
		return nil
	}

	surveyLetters, surveyDigits := splitSurvey(id.SurveyName)
	if tokenDigits != surveyDigits || !strings.EqualFold(tokenLetters, surveyLetters) {
		return errs.Newf(errs.ErrKindInvalidIdentity,
			"file name token %q does not match survey %q", token, id.SurveyName)
	}
	// The token letters are the archive's two-letter vessel code, which is
	// not derivable from the ship name (Oscar_Dyson files carry "DY"), so
	// the survey check above is the only equality enforced against them.
	return nil
}

// splitToken splits a digits-then-letters token like "2107RL".
func splitToken(token string) (digits, letters string) {
	i := 0
	for i < len(token) && unicode.IsDigit(rune(token[i])) {
		i++
	}
	return token[:i], token[i:]
}

// splitSurvey splits a letters-then-digits survey name like "RL2107".
func splitSurvey(survey string) (letters, digits string) {
	i := 0
	for i < len(survey) && unicode.IsLetter(rune(survey[i])) {
		i++
	}
	return survey[:i], survey[i:]
}

// Stem returns the file name without its extension.
func (id *Identity) Stem() string {
	if i := strings.LastIndexByte(id.FileName, '.'); i > 0 {
		return id.FileName[:i]
	}
	return id.FileName
}

// RawFileName returns the .raw recording name this artifact derives from.
func (id *Identity) RawFileName() string {
	return id.Stem() + ".raw"
}

// IndexFileName returns the .idx companion name for this recording.
func (id *Identity) IndexFileName() string {
	return id.Stem() + ".idx"
}

// BottomFileName returns the .bot companion name for this recording.
func (id *Identity) BottomFileName() string {
	return id.Stem() + ".bot"
}

// NetCDFFileName returns the converted-container name for this recording.
func (id *Identity) NetCDFFileName() string {
	return id.Stem() + ".nc"
}

// Companion returns a copy of id addressing the same recording's companion
// artifact of the given type.
func (id *Identity) Companion(t FileType) *Identity {
	c := *id
	c.FileType = t
	switch t {
	case TypeRaw:
		c.FileName = id.RawFileName()
	case TypeIndex:
		c.FileName = id.IndexFileName()
	case TypeBottom:
		c.FileName = id.BottomFileName()
	case TypeNetCDF:
		c.FileName = id.NetCDFFileName()
	}
	return &c
}
