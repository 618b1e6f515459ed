package chat

import "time"

// ConversationGap is the longest silence that still continues a conversation.
const ConversationGap = time.Hour

// Segment assigns conversation ids to msgs in place and returns the
// conversation table. msgs must already be sorted by timestamp.
func Segment(msgs []Message) []Conversation {
	if len(msgs) == 0 {
		return nil
	}

	var convs []Conversation
	id, start := 0, 0
	for i := range msgs {
		if i > 0 && startsConversation(msgs[i-1], msgs[i]) {
			convs = append(convs, newConversation(msgs, id, start, i-1))
			id++
			start = i
		}
		msgs[i].Conversation = id
	}
	convs = append(convs, newConversation(msgs, id, start, len(msgs)-1))
	return convs
}

func startsConversation(prev, cur Message) bool {
	if cur.Channel != prev.Channel {
		return true
	}
	return cur.Timestamp.Sub(prev.Timestamp) > ConversationGap
}

func newConversation(msgs []Message, id, start, end int) Conversation {
	return Conversation{
		ID:             id,
		StartIndex:     start,
		EndIndex:       end,
		StartTimestamp: msgs[start].Timestamp,
		EndTimestamp:   msgs[end].Timestamp,
		Channel:        msgs[start].Channel,
	}
}
