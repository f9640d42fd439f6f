package main

import (
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find [ship [survey [echosounder]]]",
	Short: "Browse the public archive one level at a time",
	Long: `With no arguments, lists the archive's ships. Each further argument
descends one level: surveys for a ship, echosounders for a survey, and
finally the .raw recordings under an echosounder.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()

		switch len(args) {
		case 0:
			ships, err := a.explorer.ListShips(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string][]string{"ships": ships})
		case 1:
			surveys, err := a.explorer.ListSurveys(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(map[string][]string{"surveys": surveys})
		case 2:
			sounders, err := a.explorer.ListEchosounders(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(map[string][]string{"echosounders": sounders})
		default:
			files, err := a.explorer.ListRawFiles(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printJSON(map[string][]string{"files": files})
		}
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
