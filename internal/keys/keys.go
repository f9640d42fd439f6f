// Package keys derives canonical storage keys from a file identity.
//
// Every function here is pure and deterministic: the same identity always
// yields the same key, and the key shape is identical for the cache bucket
// and any mirror of it, only the bucket root differs. The public archive
// and the on-prem container keep their own layouts, derived alongside.
package keys

import (
	"strings"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/errs"
)

// Cache returns the artifact's key inside the cache bucket:
//
//	raw family:      {source}/{ship}/{survey}/{echosounder}/data/raw/{file}
//	converted:       {source}/{ship}/{survey}/{echosounder}/data/netcdf/{file}
//	file metadata:   {source}/{ship}/{survey}/{echosounder}/metadata/{raw|netcdf}/{file}.json
//	survey metadata: {source}/{ship}/{survey}/metadata/{file}
func Cache(id *artifact.Identity) (string, error) {
	if err := check(id); err != nil {
		return "", err
	}

	if id.IsSurveyMetadata {
		return join(string(id.DataSource), id.ShipName, id.SurveyName,
			"metadata", id.FileName), nil
	}

	if id.IsMetadata {
		branch, err := dataBranch(id.FileType)
		if err != nil {
			return "", err
		}
		return join(string(id.DataSource), id.ShipName, id.SurveyName,
			id.Echosounder, "metadata", branch, id.FileName+".json"), nil
	}

	branch, err := dataBranch(id.FileType)
	if err != nil {
		return "", err
	}
	return join(string(id.DataSource), id.ShipName, id.SurveyName,
		id.Echosounder, "data", branch, id.FileName), nil
}

// Archive returns the artifact's key inside the public archive bucket. The
// archive stores ship directories under the caller-supplied spelling, so the
// unnormalized name is used verbatim.
func Archive(id *artifact.Identity) (string, error) {
	if err := check(id); err != nil {
		return "", err
	}
	if !id.FileType.IsRawFamily() {
		return "", errs.Newf(errs.ErrKindInvalidIdentity,
			"the archive only holds raw-family artifacts, not %s", id.FileType)
	}
	return join("data", "raw", id.ArchiveShipName, id.SurveyName,
		id.Echosounder, id.FileName), nil
}

// Local returns the artifact's path inside the on-prem blob container.
func Local(id *artifact.Identity) (string, error) {
	if err := check(id); err != nil {
		return "", err
	}
	return join(id.ShipName, id.SurveyName, id.Echosounder, id.FileName), nil
}

// SurveyPrefix returns the archive listing prefix for one ship survey.
func SurveyPrefix(shipName, surveyName, echosounder string) string {
	parts := []string{"data", "raw", shipName}
	if surveyName != "" {
		parts = append(parts, surveyName)
		if echosounder != "" {
			parts = append(parts, echosounder)
		}
	}
	return join(parts...) + "/"
}

// NetCDFFromRaw rewrites a raw cache key into the corresponding converted
// key: the data branch flips from raw to netcdf and the extension becomes
// .nc.
func NetCDFFromRaw(rawKey string) string {
	key := strings.Replace(rawKey, "/raw/", "/netcdf/", 1)
	if i := strings.LastIndexByte(key, '.'); i > strings.LastIndexByte(key, '/') {
		key = key[:i]
	}
	return key + ".nc"
}

// dataBranch maps a file type onto its data sub-directory.
func dataBranch(t artifact.FileType) (string, error) {
	switch {
	case t.IsRawFamily():
		return "raw", nil
	case t.IsConverted():
		return "netcdf", nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidIdentity,
			"file type %s has no data branch", t)
	}
}

func check(id *artifact.Identity) error {
	if id == nil {
		return errs.New(errs.ErrKindInvalidIdentity, "identity is nil")
	}
	for _, part := range []string{
		string(id.DataSource), id.ShipName, id.SurveyName, id.Echosounder, id.FileName,
	} {
		if part == "" {
			return errs.New(errs.ErrKindInvalidIdentity, "identity has empty fields")
		}
		if strings.ContainsAny(part, "/\\") || strings.Contains(part, "..") {
			return errs.Newf(errs.ErrKindInvalidIdentity,
				"identity field %q contains path-unsafe characters", part)
		}
	}
	return nil
}

func join(parts ...string) string {
	return strings.Join(parts, "/")
}
