package query

import (
	"regexp"
	"strings"
)

const groupList = `[a-zA-Z]+(?:(?: per| by|,|, and| and) [a-zA-Z]+)*`

var (
	// <target> (per|by|sorted by) <group-list>
	simpleQuery = regexp.MustCompile(
		`^([a-zA-Z]+) (?:per|by|sorted by) (` + groupList + `)$`)

	// <operation> [of] <target> (per|by) <group>[ (per|by|sorted by) <group-list>]
	// A multi-word operation must be followed by "of".
	complexQuery = regexp.MustCompile(
		`^(?:([a-zA-Z]+(?: [a-zA-Z]+)*) of|([a-zA-Z]+)) ([a-zA-Z]+) (?:per|by) ([a-zA-Z]+)` +
			`(?: (?:per|by|sorted by) (` + groupList + `))?$`)

	// first alternative that matches at a position wins; ", and " comes
	// before ", " so that "a, and b" does not leave a stray "and"
	groupSeparator = regexp.MustCompile(` by |, and |, | per | and | `)
)

// parsed is a query split into its raw, unresolved words.
type parsed struct {
	op      string // empty for simple queries
	target  string
	initial string // empty for simple queries
	final   []string
}

// Parse turns a (corrected) query string into a resolved Intent.
func Parse(query string) (Intent, error) {
	p, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	return resolve(query, p)
}

func parseQuery(query string) (parsed, error) {
	if m := simpleQuery.FindStringSubmatch(query); m != nil {
		return parsed{target: m[1], final: splitGroups(m[2])}, nil
	}
	if m := complexQuery.FindStringSubmatch(query); m != nil {
		op := m[1]
		if op == "" {
			op = m[2]
		}
		return parsed{op: op, target: m[3], initial: m[4], final: splitGroups(m[5])}, nil
	}
	return parsed{}, &InvalidQueryError{Query: query}
}

// splitGroups splits a group list such as "day, week and sender".
func splitGroups(list string) []string {
	if list == "" {
		return nil
	}
	var groups []string
	for _, g := range groupSeparator.Split(list, -1) {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

func resolve(query string, p parsed) (Intent, error) {
	target, err := ResolveTarget(p.target)
	if err != nil {
		return nil, err
	}
	final, err := ResolveGroups(p.final)
	if err != nil {
		return nil, err
	}

	if p.op == "" {
		if len(final) == 0 {
			return nil, &InvalidQueryError{Query: query, Reason: "nothing to group by"}
		}
		return Breakdown{Target: target, Final: final}, nil
	}

	op, err := ResolveOperation(p.op)
	if err != nil {
		return nil, err
	}
	initial, err := ResolveGroup(p.initial)
	if err != nil {
		return nil, err
	}
	if len(final) == 0 {
		return Aggregate{Op: op, Target: target, Initial: initial}, nil
	}
	return GroupedAggregate{Op: op, Target: target, Initial: initial, Final: final}, nil
}
