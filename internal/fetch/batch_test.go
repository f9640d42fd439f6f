package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/discover"
)

func TestFetchSurvey(t *testing.T) {
	f := newFixture(t)
	f.archive.Seed(archiveBucket, rawArchKey, []byte("one"))
	f.archive.Seed(archiveBucket,
		"data/raw/Reuben_Lasker/RL2107/EK80/2107RL_CW-D20210916-T123456.raw", []byte("two"))
	// Survey token mismatch: this file fails identity validation but must
	// not block the rest of the batch.
	f.archive.Seed(archiveBucket,
		"data/raw/Reuben_Lasker/RL2107/EK80/9999XX_CW-D20210101-T000000.raw", []byte("bad"))

	ex := &discover.Explorer{Store: f.archive, Bucket: archiveBucket}
	batch, err := f.orch.FetchSurvey(context.Background(), ex, SurveyRequest{
		ShipName:    "Reuben_Lasker",
		SurveyName:  "RL2107",
		Echosounder: "EK80",
		DataSource:  "NCEI",
	})
	require.NoError(t, err)

	assert.Len(t, batch.Items, 3)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)

	assert.Equal(t, []byte("one"), f.cache.Bytes(cacheBucket, rawCacheKey))
	assert.Equal(t, []byte("two"), f.cache.Bytes(cacheBucket,
		"NCEI/Reuben_Lasker/RL2107/EK80/data/raw/2107RL_CW-D20210916-T123456.raw"))
}

func TestFetchSurveyConverted(t *testing.T) {
	f := newFixture(t)
	f.archive.Seed(archiveBucket, rawArchKey, []byte("one"))

	ex := &discover.Explorer{Store: f.archive, Bucket: archiveBucket}
	batch, err := f.orch.FetchSurvey(context.Background(), ex, SurveyRequest{
		ShipName:    "Reuben_Lasker",
		SurveyName:  "RL2107",
		Echosounder: "EK80",
		DataSource:  "NCEI",
		FileType:    artifact.TypeNetCDF,
	})
	require.NoError(t, err)
	require.Equal(t, 1, batch.Succeeded)
	assert.True(t, batch.Items[0].Result.Converted)
}

func TestFetchSurveyRequiresExplorer(t *testing.T) {
	f := newFixture(t)
	_, err := f.orch.FetchSurvey(context.Background(), nil, SurveyRequest{})
	assert.Error(t, err)
}
