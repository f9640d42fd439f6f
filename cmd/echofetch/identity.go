package main

import (
	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/artifact"
)

// identityFlags are the flags every recording-addressed command shares.
type identityFlags struct {
	ship        string
	survey      string
	echosounder string
	source      string
	fileName    string
	fileType    string
}

func (f *identityFlags) register(cmd *cobra.Command, fileRequired bool) {
	cmd.Flags().StringVar(&f.ship, "ship", "", "ship name (archive spelling)")
	cmd.Flags().StringVar(&f.survey, "survey", "", "survey / cruise name, e.g. RL2107")
	cmd.Flags().StringVar(&f.echosounder, "echosounder", "", "echosounder model, e.g. EK80")
	cmd.Flags().StringVar(&f.source, "source", "NCEI", "data source: NCEI, OMAO, HDD or TEST")
	cmd.Flags().StringVar(&f.fileName, "file", "", "recording file name")
	cmd.Flags().StringVar(&f.fileType, "type", "raw", "file type: raw or netcdf")

	cmd.MarkFlagRequired("ship")
	cmd.MarkFlagRequired("survey")
	cmd.MarkFlagRequired("echosounder")
	if fileRequired {
		cmd.MarkFlagRequired("file")
	}
}

func (f *identityFlags) identity() (*artifact.Identity, error) {
	return artifact.New(artifact.Params{
		ShipName:    f.ship,
		SurveyName:  f.survey,
		Echosounder: f.echosounder,
		DataSource:  f.source,
		FileName:    f.fileName,
		FileType:    f.fileType,
	})
}
