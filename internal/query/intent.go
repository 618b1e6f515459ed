package query

// Intent is a resolved query plan: one of Breakdown, Aggregate or
// GroupedAggregate.
type Intent interface {
	isIntent()
}

// Breakdown reports the target for every combination of the final groups,
// e.g. "messages per sender".
type Breakdown struct {
	Target Target
	Final  []Group
}

// Aggregate measures the target per initial group and collapses the
// resulting series with Op, e.g. "mean words per conversation".
type Aggregate struct {
	Op      Operation
	Target  Target
	Initial Group
}

// GroupedAggregate runs an Aggregate inside every combination of the final
// groups, e.g. "mean words per message per sender".
type GroupedAggregate struct {
	Op      Operation
	Target  Target
	Initial Group
	Final   []Group
}

func (Breakdown) isIntent()        {}
func (Aggregate) isIntent()        {}
func (GroupedAggregate) isIntent() {}

// FinalGroups returns the groups that label the rows of the intent's result.
func FinalGroups(in Intent) []Group {
	switch in := in.(type) {
	case Breakdown:
		return in.Final
	case GroupedAggregate:
		return in.Final
	default:
		return nil
	}
}
