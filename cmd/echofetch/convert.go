package main

import (
	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/convert"
)

var convertFlags struct {
	input      string
	outputDir  string
	sonarModel string
	overwrite  bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a local .raw recording to netCDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := &convert.ExecConverter{
			Command: cfg.Converter.Command,
			Timeout: cfg.Converter.Timeout,
		}
		out, err := conv.Convert(cmd.Context(), convert.Request{
			RawPath:    convertFlags.input,
			OutputDir:  convertFlags.outputDir,
			SonarModel: convertFlags.sonarModel,
			Overwrite:  convertFlags.overwrite,
		})
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"output": out})
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFlags.input, "input", "", "path of the .raw recording")
	convertCmd.Flags().StringVar(&convertFlags.outputDir, "output-dir", ".", "directory for the .nc output")
	convertCmd.Flags().StringVar(&convertFlags.sonarModel, "sonar-model", "", "echosounder model, e.g. EK80")
	convertCmd.Flags().BoolVar(&convertFlags.overwrite, "overwrite", false, "replace an existing output file")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("sonar-model")
	rootCmd.AddCommand(convertCmd)
}
