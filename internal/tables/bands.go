package tables

// NumBands is the number of critical bands.
const NumBands = 16

// BandEdges holds the lower edge frequency of each critical band in Hz.
// A line belongs to the highest band whose edge is at or below the line's
// start frequency.
var BandEdges = [NumBands]float64{
	0, 150, 320, 600, 900, 1200, 1600, 2100,
	2600, 3200, 4000, 5500, 7300, 9500, 12000, 16000,
}
