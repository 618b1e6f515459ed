package query

import (
	"slices"
	"sort"
	"strings"
)

type Operation string

const (
	OpMean   Operation = "mean"
	OpMedian Operation = "median"
	OpMode   Operation = "mode"
	OpRange  Operation = "range"
	OpStdev  Operation = "stdev"
	OpTotal  Operation = "total"
	OpMax    Operation = "max"
	OpMin    Operation = "min"
)

type Target string

const (
	TargetMessage      Target = "message"
	TargetConversation Target = "conversation"
	TargetWord         Target = "word"
	TargetCharacter    Target = "character"
	TargetDuration     Target = "duration"
)

type Group string

const (
	GroupMessage      Group = "message"
	GroupConversation Group = "conversation"
	GroupDay          Group = "day"
	GroupWeek         Group = "week"
	GroupMonth        Group = "month"
	GroupYear         Group = "year"
	GroupSender       Group = "sender"
)

var operationSynonyms = map[Operation][]string{
	OpMean:   {"average", "avg"},
	OpMedian: {"med"},
	OpMode:   {"modal"},
	OpRange:  {"spread"},
	OpStdev:  {"standard deviation", "std", "sd", "deviation"},
	OpTotal:  {"sum"},
	OpMax:    {"maximum", "most", "highest"},
	OpMin:    {"minimum", "least", "fewest", "lowest"},
}

var targetSynonyms = map[Target][]string{
	TargetMessage:      {"messages", "msg", "msgs", "text", "texts"},
	TargetConversation: {"conversations", "convo", "convos", "chat", "chats"},
	TargetWord:         {"words"},
	TargetCharacter:    {"characters", "char", "chars", "letter", "letters"},
	TargetDuration:     {"durations", "length", "lengths", "time"},
}

var groupSynonyms = map[Group][]string{
	GroupMessage:      {"messages", "msg", "msgs"},
	GroupConversation: {"conversations", "convo", "convos"},
	GroupDay:          {"days", "daily"},
	GroupWeek:         {"weeks", "weekly"},
	GroupMonth:        {"months", "monthly"},
	GroupYear:         {"years", "yearly"},
	GroupSender:       {"senders", "person", "people", "author", "authors", "user", "users"},
}

// lookup tables, built once and read-only afterwards
var (
	operationLookup = invert(operationSynonyms)
	targetLookup    = invert(targetSynonyms)
	groupLookup     = invert(groupSynonyms)
)

func invert[T ~string](synonyms map[T][]string) map[string]T {
	out := make(map[string]T)
	for canonical, words := range synonyms {
		out[string(canonical)] = canonical
		for _, w := range words {
			out[w] = canonical
		}
	}
	return out
}

func ResolveOperation(tok string) (Operation, error) {
	if op, ok := operationLookup[tok]; ok {
		return op, nil
	}
	return "", &InvalidTokenError{Kind: "operation", Token: tok}
}

func ResolveTarget(tok string) (Target, error) {
	if t, ok := targetLookup[tok]; ok {
		return t, nil
	}
	return "", &InvalidTokenError{Kind: "target", Token: tok}
}

func ResolveGroup(tok string) (Group, error) {
	if g, ok := groupLookup[tok]; ok {
		return g, nil
	}
	return "", &InvalidTokenError{Kind: "group", Token: tok}
}

// ResolveGroups resolves every token in order. A nil list stays nil.
func ResolveGroups(toks []string) ([]Group, error) {
	if toks == nil {
		return nil, nil
	}
	groups := make([]Group, 0, len(toks))
	for _, tok := range toks {
		g, err := ResolveGroup(tok)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Vocabulary lists every word the grammar and resolver understand, sorted.
// Multi-word synonyms are split into their words.
func Vocabulary() []string {
	words := append([]string{}, keywords...)
	for w := range operationLookup {
		words = append(words, strings.Fields(w)...)
	}
	for w := range targetLookup {
		words = append(words, strings.Fields(w)...)
	}
	for w := range groupLookup {
		words = append(words, strings.Fields(w)...)
	}
	sort.Strings(words)
	return slices.Compact(words)
}

// keywords are the grammar's own words.
var keywords = []string{"per", "by", "sorted", "of", "and"}
