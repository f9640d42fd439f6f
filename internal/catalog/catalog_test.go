package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/errs"
)

func TestNormalizeShipName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HENRY B. BIGELOW", "Henry_B_Bigelow"},
		{"Reuben Lasker", "Reuben_Lasker"},
		{"reuben_lasker", "Reuben_Lasker"},
		{"Oscar  Dyson", "Oscar_Dyson"},
		{"bell m. shimada", "Bell_M_Shimada"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeShipName(tt.in))
		})
	}
}

func TestNormalizeShipName_Deterministic(t *testing.T) {
	a := NormalizeShipName("HENRY B. BIGELOW")
	b := NormalizeShipName(a) // normalizing a normalized name is a no-op
	assert.Equal(t, a, b)
}

func TestLookupShip(t *testing.T) {
	ship, err := LookupShip("Reuben Lasker")
	require.NoError(t, err)
	assert.Equal(t, "Reuben_Lasker", ship.Name)
	assert.NotEmpty(t, ship.ICESCode)

	// Already-normalized input also resolves.
	ship, err = LookupShip("Reuben_Lasker")
	require.NoError(t, err)
	assert.Equal(t, "Reuben_Lasker", ship.Name)
}

func TestLookupShip_UnknownWithSuggestion(t *testing.T) {
	// Missing underscore: normalization yields "Reubenlasker", which is not
	// in the list but is close enough to suggest the right spelling.
	_, err := LookupShip("ReubenLasker")
	require.Error(t, err)
	assert.True(t, errs.IsUnknownShip(err))
	assert.Contains(t, err.Error(), "Reuben_Lasker")
}

func TestLookupShip_UnknownNoSuggestion(t *testing.T) {
	_, err := LookupShip("Queequeg")
	require.Error(t, err)
	assert.True(t, errs.IsUnknownShip(err))
}

func TestLookupShip_Empty(t *testing.T) {
	_, err := LookupShip("   ")
	assert.True(t, errs.IsUnknownShip(err))
}

func TestValidateEchosounder(t *testing.T) {
	require.NoError(t, ValidateEchosounder("EK80"))
	require.NoError(t, ValidateEchosounder("EK60"))
	require.NoError(t, ValidateEchosounder("EK500"))

	err := ValidateEchosounder("EK9000")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidEchosounder(err))

	assert.True(t, errs.IsInvalidEchosounder(ValidateEchosounder("")))
}

func TestParseDataSource(t *testing.T) {
	for _, v := range []string{"NCEI", "OMAO", "HDD", "TEST"} {
		src, err := ParseDataSource(v)
		require.NoError(t, err)
		assert.Equal(t, DataSource(v), src)
	}

	_, err := ParseDataSource("ncei")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidIdentity(err))
}

func TestShipNames(t *testing.T) {
	names := ShipNames()
	assert.NotEmpty(t, names)
	assert.Contains(t, names, "Reuben_Lasker")
}
