package bus

import "time"

type InboundMessage struct {
	Channel   string
	SenderID  string
	ChatID    string
	Username  string
	Content   string
	Timestamp time.Time
}

func (m *InboundMessage) SessionKey() string {
	return m.Channel + ":" + m.ChatID
}

type OutboundMessage struct {
	Channel   string
	ChatID    string
	Content   string
	Photo     []byte // PNG payload for photo replies (charts)
	PhotoName string
	Caption   string
}
