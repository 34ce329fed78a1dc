package domain

// Conversations directory response
type Conversations struct {
	Groups []GroupSummary `json:"groups"`
	Users  []UserSummary  `json:"users"`
}

// UnreadCount one row of a grouped unread aggregate, Key 是 sender_id 或 group_id
type UnreadCount struct {
	Key   uint
	Count int64
}
