package main

import (
	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/resolve"
)

var resolveFlags struct {
	identityFlags
	forceRefresh bool
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Report which backend currently holds a recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		id, err := resolveFlags.identity()
		if err != nil {
			return err
		}
		rf, err := resolve.NewRawFile(id)
		if err != nil {
			return err
		}

		res, err := a.resolver.Resolve(ctx, rf, resolve.Options{
			ForceRefresh: resolveFlags.forceRefresh,
		})
		if err != nil {
			return err
		}

		out := map[string]any{
			"found_in": res.FoundIn.String(),
			"key":      res.Key,
		}
		if res.Bucket != "" {
			out["bucket"] = res.Bucket
		}
		if res.Info != nil {
			out["size"] = res.Info.Size
		}
		return printJSON(out)
	},
}

func init() {
	resolveFlags.register(resolveCmd, true)
	resolveCmd.Flags().BoolVar(&resolveFlags.forceRefresh, "force-refresh", false, "skip the cache probe")
	rootCmd.AddCommand(resolveCmd)
}
