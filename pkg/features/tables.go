package features

// Lookup is a total categorical translation: every string maps to a number,
// values outside Values map to Default.
type Lookup struct {
	Values  map[string]float64
	Default float64
}

func (l Lookup) Translate(value string) float64 {
	if v, ok := l.Values[value]; ok {
		return v
	}
	return l.Default
}

// These tables reproduce the encoding the depression model was fitted with.
var (
	GenderTable = Lookup{
		Values: map[string]float64{"Male": 1, "Female": 0},
	}

	YesNoTable = Lookup{
		Values: map[string]float64{"Yes": 1, "No": 0},
	}

	// SleepDurationTable maps a reported bucket to its midpoint in hours.
	// "More than 8 hours" overlaps the 8-9 and 9-11 buckets and is kept at 9.
	SleepDurationTable = Lookup{
		Values: map[string]float64{
			"Less than 5 hours": 4.0,
			"5-6 hours":         5.5,
			"6-7 hours":         6.5,
			"7-8 hours":         7.5,
			"8-9 hours":         8.5,
			"9-11 hours":        10.0,
			"More than 8 hours": 9.0,
		},
	}
)
