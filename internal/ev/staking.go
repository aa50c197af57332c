package ev

// Band maps an EV floor to a stake size in units.
type Band struct {
	MinEV float64 `yaml:"min_ev"`
	Units float64 `yaml:"units"`
}

// Stake maps an EV to a stake via a monotonic non-decreasing step function:
// the highest band whose floor the EV reaches wins. EV below every band gets
// the smallest unit. Bands must be sorted ascending by MinEV.
func Stake(value float64, bands []Band) float64 {
	if len(bands) == 0 {
		return 0
	}
	stake := bands[0].Units
	for _, b := range bands {
		if value >= b.MinEV {
			stake = b.Units
		}
	}
	return stake
}
