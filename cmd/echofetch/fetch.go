package main

import (
	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/fetch"
)

var fetchFlags struct {
	identityFlags
	overwrite    bool
	forceRefresh bool
	netcdf       bool
	all          bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a recording (or a whole survey) into the cache",
	Example: `  echofetch fetch --ship Reuben_Lasker --survey RL2107 --echosounder EK80 \
      --file 2107RL_CW-D20210813-T220732.raw
  echofetch fetch --ship Reuben_Lasker --survey RL2107 --echosounder EK80 --all --netcdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		if fetchFlags.all {
			fileType := artifact.TypeRaw
			if fetchFlags.netcdf {
				fileType = artifact.TypeNetCDF
			}
			batch, err := a.orch.FetchSurvey(ctx, a.explorer, fetch.SurveyRequest{
				ShipName:     fetchFlags.ship,
				SurveyName:   fetchFlags.survey,
				Echosounder:  fetchFlags.echosounder,
				DataSource:   fetchFlags.source,
				FileType:     fileType,
				Overwrite:    fetchFlags.overwrite,
				ForceRefresh: fetchFlags.forceRefresh,
			})
			if err != nil {
				return err
			}
			return printJSON(batchSummary(batch))
		}

		if fetchFlags.fileName == "" {
			return errs.New(errs.ErrKindInvalidInput, "--file is required unless --all is set")
		}
		id, err := fetchFlags.identity()
		if err != nil {
			return err
		}
		req := fetch.Request{
			ID:           id,
			Overwrite:    fetchFlags.overwrite,
			ForceRefresh: fetchFlags.forceRefresh,
		}

		var res *fetch.Result
		if fetchFlags.netcdf {
			res, err = a.orch.EnsureNetCDF(ctx, req)
		} else {
			res, err = a.orch.Fetch(ctx, req)
		}
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"state":        res.State.String(),
			"source":       res.Source.String(),
			"cache_key":    res.CacheKey,
			"bytes_copied": res.BytesCopied,
			"converted":    res.Converted,
			"run_id":       res.RunID,
		})
	},
}

func batchSummary(batch *fetch.BatchResult) map[string]any {
	items := make([]map[string]any, 0, len(batch.Items))
	for _, item := range batch.Items {
		m := map[string]any{"file": item.FileName}
		if item.Err != nil {
			m["error"] = item.Err.Error()
		} else {
			m["state"] = item.Result.State.String()
			m["bytes_copied"] = item.Result.BytesCopied
		}
		items = append(items, m)
	}
	return map[string]any{
		"succeeded": batch.Succeeded,
		"failed":    batch.Failed,
		"items":     items,
	}
}

func init() {
	fetchFlags.register(fetchCmd, false)
	fetchCmd.Flags().BoolVar(&fetchFlags.overwrite, "overwrite", false, "replace an existing cache object")
	fetchCmd.Flags().BoolVar(&fetchFlags.forceRefresh, "force-refresh", false, "re-fetch even when cached")
	fetchCmd.Flags().BoolVar(&fetchFlags.netcdf, "netcdf", false, "cache the converted netCDF form")
	fetchCmd.Flags().BoolVar(&fetchFlags.all, "all", false, "fetch every .raw recording of the survey")
	rootCmd.AddCommand(fetchCmd)
}
