// Package discover browses the public archive's directory hierarchy:
// data/raw/{ship}/{survey}/{echosounder}/{file}. Ship directory names use
// the archive's own spelling, not the normalized form.
package discover

import (
	"context"
	"path"
	"strings"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/keys"
)

// Explorer lists ships, surveys, echosounders and raw files from the archive
// using non-recursive prefix listings, one level at a time.
type Explorer struct {
	Store  blobstore.Store
	Bucket string
}

// ListShips returns every ship directory under data/raw/.
func (e *Explorer) ListShips(ctx context.Context) ([]string, error) {
	return e.listDirs(ctx, "data/raw/")
}

// ListSurveys returns the survey directories for one ship.
func (e *Explorer) ListSurveys(ctx context.Context, ship string) ([]string, error) {
	if ship == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "ship is required")
	}
	return e.listDirs(ctx, keys.SurveyPrefix(ship, "", ""))
}

// ListEchosounders returns the echosounder directories for one ship survey.
func (e *Explorer) ListEchosounders(ctx context.Context, ship, survey string) ([]string, error) {
	if ship == "" || survey == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "ship and survey are required")
	}
	return e.listDirs(ctx, keys.SurveyPrefix(ship, survey, ""))
}

// ListRawFiles returns the .raw file names under one echosounder directory.
// Companion .idx/.bot files are skipped.
func (e *Explorer) ListRawFiles(ctx context.Context, ship, survey, echosounder string) ([]string, error) {
	if ship == "" || survey == "" || echosounder == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "ship, survey and echosounder are required")
	}

	prefix := keys.SurveyPrefix(ship, survey, echosounder)
	infos, err := e.Store.ListObjects(ctx, e.Bucket, blobstore.ListOptions{
		Prefix:    prefix,
		Recursive: false,
	})
	if err != nil {
		return nil, err
	}

	var files []string
	for _, info := range infos {
		if info.IsDir {
			continue
		}
		name := path.Base(info.Key)
		if strings.EqualFold(path.Ext(name), ".raw") {
			files = append(files, name)
		}
	}
	return files, nil
}

// listDirs returns the immediate child directory names under prefix.
func (e *Explorer) listDirs(ctx context.Context, prefix string) ([]string, error) {
	infos, err := e.Store.ListObjects(ctx, e.Bucket, blobstore.ListOptions{
		Prefix:    prefix,
		Recursive: false,
	})
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, info := range infos {
		if !info.IsDir {
			continue
		}
		name := path.Base(strings.TrimSuffix(info.Key, "/"))
		if name != "" && name != "." {
			dirs = append(dirs, name)
		}
	}
	return dirs, nil
}
