package query

// minAxisValues is the fewest distinct values level 0 needs to stay on the
// x-axis when level 1 has fewer values.
const minAxisValues = 5

// Axes says which grouping level of a Series runs along the x-axis and
// which one splits it into legend entries.
type Axes struct {
	X           Group
	XLevel      int
	Legend      Group
	LegendLevel int // -1 when there is no legend
}

func (a Axes) HasLegend() bool {
	return a.LegendLevel >= 0
}

// ChooseAxes lays out a series for plotting. With two levels the level
// with more distinct values usually becomes the x-axis: a handful of
// senders across many days puts days on the axis and senders in the
// legend.
func ChooseAxes(s *Series) (Axes, error) {
	switch len(s.Groups) {
	case 0:
		return Axes{}, &InvalidQueryError{Reason: "nothing to group by"}
	case 1:
		return Axes{X: s.Groups[0], XLevel: 0, LegendLevel: -1}, nil
	case 2:
	default:
		return Axes{}, &TooManyGroupsError{Groups: s.Groups}
	}

	c0, c1 := len(s.Levels(0)), len(s.Levels(1))
	if c0 < c1 || c0 < minAxisValues {
		return Axes{X: s.Groups[1], XLevel: 1, Legend: s.Groups[0], LegendLevel: 0}, nil
	}
	return Axes{X: s.Groups[0], XLevel: 0, Legend: s.Groups[1], LegendLevel: 1}, nil
}
