package discover

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/blobstore/memstore"
)

const testBucket = "archive"

func seededExplorer() *Explorer {
	store := memstore.New()
	for _, key := range []string{
		"data/raw/Reuben_Lasker/RL2107/EK80/2107RL_CW-D20210813-T220732.raw",
		"data/raw/Reuben_Lasker/RL2107/EK80/2107RL_CW-D20210813-T220732.idx",
		"data/raw/Reuben_Lasker/RL2107/EK80/2107RL_CW-D20210916-T123456.raw",
		"data/raw/Reuben_Lasker/RL2107/EK60/2107RL_CW-D20210813-T220732.raw",
		"data/raw/Reuben_Lasker/RL1906/EK80/1906RL_CW-D20190612-T091543.raw",
		"data/raw/Henry_B._Bigelow/HB2202/EK80/2202HB-D20220301-T000000.raw",
	} {
		store.Seed(testBucket, key, []byte("x"))
	}
	return &Explorer{Store: store, Bucket: testBucket}
}

func TestListShips(t *testing.T) {
	e := seededExplorer()
	ships, err := e.ListShips(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Henry_B._Bigelow", "Reuben_Lasker"}, ships)
}

func TestListSurveys(t *testing.T) {
	e := seededExplorer()
	surveys, err := e.ListSurveys(context.Background(), "Reuben_Lasker")
	require.NoError(t, err)
	assert.Equal(t, []string{"RL1906", "RL2107"}, surveys)
}

func TestListEchosounders(t *testing.T) {
	e := seededExplorer()
	sounders, err := e.ListEchosounders(context.Background(), "Reuben_Lasker", "RL2107")
	require.NoError(t, err)
	assert.Equal(t, []string{"EK60", "EK80"}, sounders)
}

func TestListRawFilesSkipsCompanions(t *testing.T) {
	e := seededExplorer()
	files, err := e.ListRawFiles(context.Background(), "Reuben_Lasker", "RL2107", "EK80")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2107RL_CW-D20210813-T220732.raw",
		"2107RL_CW-D20210916-T123456.raw",
	}, files)
}

func TestListRequiresArguments(t *testing.T) {
	e := seededExplorer()
	_, err := e.ListSurveys(context.Background(), "")
	assert.Error(t, err)
	_, err = e.ListEchosounders(context.Background(), "Reuben_Lasker", "")
	assert.Error(t, err)
	_, err = e.ListRawFiles(context.Background(), "Reuben_Lasker", "RL2107", "")
	assert.Error(t, err)
}

func TestListEmptyPrefix(t *testing.T) {
	e := seededExplorer()
	files, err := e.ListRawFiles(context.Background(), "Nonexistent_Ship", "XX0000", "EK80")
	require.NoError(t, err)
	assert.Empty(t, files)
}
