package fetch

import (
	"context"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/discover"
	"github.com/seabeam/echofetch/internal/errs"
)

// SurveyRequest asks for every .raw recording of one ship survey.
type SurveyRequest struct {
	// ShipName uses the archive's spelling; normalization happens per file.
	ShipName    string
	SurveyName  string
	Echosounder string
	DataSource  string

	// FileType selects the cached form, raw (default) or netcdf.
	FileType artifact.FileType

	Overwrite    bool
	ForceRefresh bool
}

// BatchItem is the outcome for one file of a batch.
type BatchItem struct {
	FileName string
	Result   *Result
	Err      error
}

// BatchResult aggregates a survey fetch.
type BatchResult struct {
	Items     []BatchItem
	Succeeded int
	Failed    int
}

// FetchSurvey lists the survey's recordings in the archive and fetches them
// one by one. Items are isolated: a failing file is recorded and the batch
// moves on. The returned error covers only the listing itself.
func (o *Orchestrator) FetchSurvey(ctx context.Context, ex *discover.Explorer, req SurveyRequest) (*BatchResult, error) {
	if ex == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "an archive explorer is required")
	}

	files, err := ex.ListRawFiles(ctx, req.ShipName, req.SurveyName, req.Echosounder)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{Items: make([]BatchItem, 0, len(files))}
	for _, name := range files {
		item := BatchItem{FileName: name}
		item.Result, item.Err = o.fetchOne(ctx, req, name)
		if item.Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
		batch.Items = append(batch.Items, item)

		if ctx.Err() != nil {
			break
		}
	}
	return batch, nil
}

func (o *Orchestrator) fetchOne(ctx context.Context, req SurveyRequest, fileName string) (*Result, error) {
	id, err := artifact.New(artifact.Params{
		ShipName:    req.ShipName,
		SurveyName:  req.SurveyName,
		Echosounder: req.Echosounder,
		DataSource:  req.DataSource,
		FileName:    fileName,
		FileType:    "raw",
	})
	if err != nil {
		return nil, err
	}
	if req.FileType == artifact.TypeNetCDF {
		id = id.Companion(artifact.TypeNetCDF)
	}
	return o.Fetch(ctx, Request{
		ID:           id,
		Overwrite:    req.Overwrite,
		ForceRefresh: req.ForceRefresh,
	})
}
