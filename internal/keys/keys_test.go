package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/errs"
)

func mustIdentity(t *testing.T, mutate func(*artifact.Params)) *artifact.Identity {
	t.Helper()
	p := artifact.Params{
		ShipName:    "Reuben_Lasker",
		SurveyName:  "RL2107",
		Echosounder: "EK80",
		DataSource:  "NCEI",
		FileName:    "2107RL_CW-D20210813-T220732.raw",
		FileType:    "raw",
	}
	if mutate != nil {
		mutate(&p)
	}
	id, err := artifact.New(p)
	require.NoError(t, err)
	return id
}

func TestCache_RawFamily(t *testing.T) {
	id := mustIdentity(t, nil)

	key, err := Cache(id)
	require.NoError(t, err)
	assert.Equal(t,
		"NCEI/Reuben_Lasker/RL2107/EK80/data/raw/2107RL_CW-D20210813-T220732.raw",
		key)

	idx, err := Cache(id.Companion(artifact.TypeIndex))
	require.NoError(t, err)
	assert.Equal(t,
		"NCEI/Reuben_Lasker/RL2107/EK80/data/raw/2107RL_CW-D20210813-T220732.idx",
		idx)
}

func TestCache_Converted(t *testing.T) {
	id := mustIdentity(t, nil)

	key, err := Cache(id.Companion(artifact.TypeNetCDF))
	require.NoError(t, err)
	assert.Equal(t,
		"NCEI/Reuben_Lasker/RL2107/EK80/data/netcdf/2107RL_CW-D20210813-T220732.nc",
		key)
}

func TestCache_Deterministic(t *testing.T) {
	id := mustIdentity(t, nil)

	first, err := Cache(id)
	require.NoError(t, err)
	second, err := Cache(id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCache_MetadataDisjointFromPayload(t *testing.T) {
	id := mustIdentity(t, nil)
	payloadKey, err := Cache(id)
	require.NoError(t, err)

	meta := mustIdentity(t, func(p *artifact.Params) { p.IsMetadata = true })
	metaKey, err := Cache(meta)
	require.NoError(t, err)

	assert.Equal(t,
		"NCEI/Reuben_Lasker/RL2107/EK80/metadata/raw/2107RL_CW-D20210813-T220732.raw.json",
		metaKey)
	assert.NotEqual(t, payloadKey, metaKey)
	assert.Contains(t, metaKey, "/metadata/")
	assert.NotContains(t, payloadKey, "/metadata/")
}

func TestCache_SurveyMetadata(t *testing.T) {
	id := mustIdentity(t, func(p *artifact.Params) {
		p.IsSurveyMetadata = true
		p.FileName = "survey_readme.json"
		p.FileType = "json"
	})

	key, err := Cache(id)
	require.NoError(t, err)
	assert.Equal(t, "NCEI/Reuben_Lasker/RL2107/metadata/survey_readme.json", key)
}

func TestArchive(t *testing.T) {
	id := mustIdentity(t, nil)

	key, err := Archive(id)
	require.NoError(t, err)
	assert.Equal(t,
		"data/raw/Reuben_Lasker/RL2107/EK80/2107RL_CW-D20210813-T220732.raw",
		key)
}

func TestArchive_RejectsConverted(t *testing.T) {
	id := mustIdentity(t, nil)

	_, err := Archive(id.Companion(artifact.TypeNetCDF))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidIdentity(err))
}

func TestLocal(t *testing.T) {
	id := mustIdentity(t, nil)

	key, err := Local(id)
	require.NoError(t, err)
	assert.Equal(t,
		"Reuben_Lasker/RL2107/EK80/2107RL_CW-D20210813-T220732.raw", key)
}

func TestNetCDFFromRaw(t *testing.T) {
	raw := "NCEI/Reuben_Lasker/RL2107/EK80/data/raw/2107RL_CW-D20210813-T220732.raw"
	nc := NetCDFFromRaw(raw)
	assert.Equal(t,
		"NCEI/Reuben_Lasker/RL2107/EK80/data/netcdf/2107RL_CW-D20210813-T220732.nc",
		nc)
	assert.False(t, strings.Contains(nc, "/raw/"))
}

func TestSurveyPrefix(t *testing.T) {
	assert.Equal(t, "data/raw/Reuben_Lasker/", SurveyPrefix("Reuben_Lasker", "", ""))
	assert.Equal(t, "data/raw/Reuben_Lasker/RL2107/",
		SurveyPrefix("Reuben_Lasker", "RL2107", ""))
	assert.Equal(t, "data/raw/Reuben_Lasker/RL2107/EK80/",
		SurveyPrefix("Reuben_Lasker", "RL2107", "EK80"))
}

func TestCache_NilIdentity(t *testing.T) {
	_, err := Cache(nil)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidIdentity(err))
}
