package catalog

// Ship is one entry of the reference ship list: the canonical normalized
// spelling plus its ICES platform code (SHIPC vocabulary).
type Ship struct {
	Name     string // normalized: Title_Case_With_Underscores
	ICESCode string
}

// referenceShips is the embedded reference list of research vessels the
// archive carries data for. Names are stored pre-normalized.
var referenceShips = []Ship{
	{Name: "Alaska_Knight", ICESCode: "32AK"},
	{Name: "Albatross_Iv", ICESCode: "31AL"},
	{Name: "Aurora_Borealis", ICESCode: "33AB"},
	{Name: "Bell_M_Shimada", ICESCode: "325S"},
	{Name: "Celtic_Explorer", ICESCode: "45CE"},
	{Name: "David_Starr_Jordan", ICESCode: "31DJ"},
	{Name: "Delaware_Ii", ICESCode: "31DE"},
	{Name: "Dyson", ICESCode: "32DY"},
	{Name: "Ferdinand_R_Hassler", ICESCode: "33FH"},
	{Name: "Gordon_Gunter", ICESCode: "325G"},
	{Name: "Gunnerus", ICESCode: "58GU"},
	{Name: "Henry_B_Bigelow", ICESCode: "330B"},
	{Name: "Hugh_R_Sharp", ICESCode: "33HS"},
	{Name: "John_N_Cobb", ICESCode: "31JC"},
	{Name: "Miller_Freeman", ICESCode: "32MF"},
	{Name: "Nancy_Foster", ICESCode: "33NF"},
	{Name: "Okeanos_Explorer", ICESCode: "33OE"},
	{Name: "Oregon_Ii", ICESCode: "31OR"},
	{Name: "Oscar_Dyson", ICESCode: "327D"},
	{Name: "Oscar_Elton_Sette", ICESCode: "326S"},
	{Name: "Pisces", ICESCode: "33PC"},
	{Name: "Rainier", ICESCode: "33RA"},
	{Name: "Reuben_Lasker", ICESCode: "330L"},
	{Name: "Ronald_H_Brown", ICESCode: "33RB"},
	{Name: "Sally_Ride", ICESCode: "33SR"},
	{Name: "Thomas_Jefferson", ICESCode: "33TJ"},
	{Name: "Townsend_Cromwell", ICESCode: "31TC"},
	{Name: "Roger_Revelle", ICESCode: "33RR"},
}

// shipIndex maps the normalized name to its entry.
var shipIndex = func() map[string]Ship {
	m := make(map[string]Ship, len(referenceShips))
	for _, s := range referenceShips {
		m[s.Name] = s
	}
	return m
}()

// ShipNames returns the normalized names of every reference ship.
func ShipNames() []string {
	names := make([]string, len(referenceShips))
	for i, s := range referenceShips {
		names[i] = s.Name
	}
	return names
}
