package entities

import "time"

// 聊天类型
const (
	ChatTypePrivate    = "private"
	ChatTypeGroup      = "group"
	ChatTypeSupergroup = "supergroup"
	ChatTypeChannel    = "channel"
)

// Chat 消息所在的聊天
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// User 发送者
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

// Message 触发任务的原始消息
type Message struct {
	ID   int       `json:"message_id"`
	Link string    `json:"link"`
	Date time.Time `json:"date"`
	Chat *Chat     `json:"chat,omitempty"`
	From *User     `json:"from,omitempty"`
}

// SenderID 返回发送者ID, 无发送者时 ok=false
func (m *Message) SenderID() (int64, bool) {
	if m == nil || m.From == nil {
		return 0, false
	}
	return m.From.ID, true
}

// IsPrivate 是否私聊
func (m *Message) IsPrivate() bool {
	return m != nil && m.Chat != nil && m.Chat.Type == ChatTypePrivate
}
