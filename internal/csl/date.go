package csl

// Date is a CSL date. Either Parts holds one positional [year, month, day]
// array (a prefix may be present, e.g. year only), or Raw holds text the
// processor should parse itself. Season is only set on year-only dates.
type Date struct {
	Parts  [][]int `json:"date-parts,omitempty"`
	Season string  `json:"season,omitempty"`
	Raw    string  `json:"raw,omitempty"`
}

// Seasons lists the season names used in source records. A season's CSL
// code is its index plus one.
var Seasons = []string{"Spring", "Summer", "Fall", "Winter"}

// Year returns the year part, or 0.
func (d *Date) Year() int {
	return d.part(0)
}

// Month returns the month part, or 0.
func (d *Date) Month() int {
	return d.part(1)
}

// Day returns the day part, or 0.
func (d *Date) Day() int {
	return d.part(2)
}

func (d *Date) part(i int) int {
	if d == nil || len(d.Parts) == 0 || len(d.Parts[0]) <= i {
		return 0
	}
	return d.Parts[0][i]
}
