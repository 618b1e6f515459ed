package query

import (
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

type Options struct {
	// WakingDay makes the day group count messages sent before 5 AM
	// toward the previous day.
	WakingDay bool
}

// Execute runs intent over msgs, which must be sorted and segmented.
func Execute(intent Intent, msgs []chat.Message, opts Options) (Result, error) {
	switch in := intent.(type) {
	case Breakdown:
		if len(in.Final) == 0 {
			return nil, &InvalidQueryError{Reason: "nothing to group by"}
		}
		if len(msgs) == 0 {
			return nil, ErrNoMessages
		}
		s, err := breakdown(in, msgs, opts)
		if err != nil {
			return nil, err
		}
		return s, nil

	case Aggregate:
		if in.Initial == "" {
			return nil, &InvalidQueryError{Reason: "nothing to group by"}
		}
		if len(msgs) == 0 {
			return nil, ErrNoMessages
		}
		v, err := aggregate(in.Op, in.Target, in.Initial, msgs, allMembers(msgs), opts)
		if err != nil {
			return nil, err
		}
		return &Scalar{Op: in.Op, Target: in.Target, Value: v}, nil

	case GroupedAggregate:
		if in.Initial == "" || len(in.Final) == 0 {
			return nil, &InvalidQueryError{Reason: "nothing to group by"}
		}
		if len(msgs) == 0 {
			return nil, ErrNoMessages
		}
		s, err := groupedAggregate(in, msgs, opts)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, &InvalidQueryError{Reason: "nothing to group by"}
	}
}

func breakdown(in Breakdown, msgs []chat.Message, opts Options) (*Series, error) {
	measure, err := targetFunc(in.Target)
	if err != nil {
		return nil, err
	}
	buckets, err := partition(msgs, allMembers(msgs), in.Final, opts)
	if err != nil {
		return nil, err
	}

	s := &Series{Target: in.Target, Groups: in.Final}
	for _, b := range buckets {
		s.Rows = append(s.Rows, Row{Keys: b.keys, Value: Value{measure(msgs, b.members)}})
	}
	return s, nil
}

func groupedAggregate(in GroupedAggregate, msgs []chat.Message, opts Options) (*Series, error) {
	outer, err := partition(msgs, allMembers(msgs), in.Final, opts)
	if err != nil {
		return nil, err
	}

	s := &Series{Op: in.Op, Target: in.Target, Groups: in.Final}
	for _, b := range outer {
		v, err := aggregate(in.Op, in.Target, in.Initial, msgs, b.members, opts)
		if err != nil {
			return nil, err
		}
		s.Rows = append(s.Rows, Row{Keys: b.keys, Value: v})
	}
	return s, nil
}

// aggregate measures target for every initial group among members and
// collapses the measurements with op.
func aggregate(op Operation, target Target, initial Group, msgs []chat.Message, members []int, opts Options) (Value, error) {
	measure, err := targetFunc(target)
	if err != nil {
		return nil, err
	}
	inner, err := partition(msgs, members, []Group{initial}, opts)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(inner))
	for i, b := range inner {
		xs[i] = measure(msgs, b.members)
	}
	return apply(op, xs)
}

type bucket struct {
	keys    []Key
	members []int // indices into the message slice
}

// partition splits members by the cross product of groups and returns
// the non-empty buckets ordered by key.
func partition(msgs []chat.Message, members []int, groups []Group, opts Options) ([]bucket, error) {
	keyFns := make([]keyFunc, len(groups))
	for i, g := range groups {
		fn, err := groupKey(g, opts)
		if err != nil {
			return nil, err
		}
		keyFns[i] = fn
	}

	index := make(map[string]int)
	var buckets []bucket
	var id strings.Builder
	for _, i := range members {
		keys := make([]Key, len(keyFns))
		id.Reset()
		for j, fn := range keyFns {
			keys[j] = fn(i, msgs[i])
			id.WriteString(keys[j].Label)
			id.WriteByte(0)
		}
		pos, ok := index[id.String()]
		if !ok {
			pos = len(buckets)
			index[id.String()] = pos
			buckets = append(buckets, bucket{keys: keys})
		}
		buckets[pos].members = append(buckets[pos].members, i)
	}

	slices.SortStableFunc(buckets, func(a, b bucket) int {
		return compareKeys(a.keys, b.keys)
	})
	return buckets, nil
}

func allMembers(msgs []chat.Message) []int {
	members := make([]int, len(msgs))
	for i := range members {
		members[i] = i
	}
	return members
}

type keyFunc func(i int, m chat.Message) Key

func groupKey(g Group, opts Options) (keyFunc, error) {
	switch g {
	case GroupMessage:
		return func(i int, _ chat.Message) Key {
			return Key{Label: strconv.Itoa(i), rank: int64(i)}
		}, nil
	case GroupConversation:
		return func(_ int, m chat.Message) Key {
			return Key{Label: strconv.Itoa(m.Conversation), rank: int64(m.Conversation)}
		}, nil
	case GroupDay:
		day := chat.Day
		if opts.WakingDay {
			day = chat.WakingDay
		}
		return timeKey(day, "2006-01-02"), nil
	case GroupWeek:
		return timeKey(chat.Week, "2006-01-02"), nil
	case GroupMonth:
		return timeKey(chat.Month, "2006-01"), nil
	case GroupYear:
		return timeKey(chat.Year, "2006"), nil
	case GroupSender:
		return func(_ int, m chat.Message) Key {
			return Key{Label: m.Sender}
		}, nil
	default:
		return nil, &InvalidTokenError{Kind: "group", Token: string(g)}
	}
}

func timeKey(truncate func(time.Time) time.Time, layout string) keyFunc {
	return func(_ int, m chat.Message) Key {
		t := truncate(m.Timestamp)
		return Key{Label: t.Format(layout), rank: t.Unix()}
	}
}

type measureFunc func(msgs []chat.Message, members []int) float64

func targetFunc(t Target) (measureFunc, error) {
	switch t {
	case TargetMessage:
		return func(_ []chat.Message, members []int) float64 {
			return float64(len(members))
		}, nil
	case TargetConversation:
		return func(msgs []chat.Message, members []int) float64 {
			seen := make(map[int]struct{})
			for _, i := range members {
				seen[msgs[i].Conversation] = struct{}{}
			}
			return float64(len(seen))
		}, nil
	case TargetWord:
		return func(msgs []chat.Message, members []int) float64 {
			n := 0
			for _, i := range members {
				n += len(strings.Fields(msgs[i].Content))
			}
			return float64(n)
		}, nil
	case TargetCharacter:
		return func(msgs []chat.Message, members []int) float64 {
			n := 0
			for _, i := range members {
				n += utf8.RuneCountInString(msgs[i].Content)
			}
			return float64(n)
		}, nil
	case TargetDuration:
		return func(msgs []chat.Message, members []int) float64 {
			first, last := msgs[members[0]].Timestamp, msgs[members[0]].Timestamp
			for _, i := range members[1:] {
				ts := msgs[i].Timestamp
				if ts.Before(first) {
					first = ts
				}
				if ts.After(last) {
					last = ts
				}
			}
			return last.Sub(first).Seconds()
		}, nil
	default:
		return nil, &InvalidTokenError{Kind: "target", Token: string(t)}
	}
}
