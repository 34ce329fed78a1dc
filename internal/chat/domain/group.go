package domain

import "time"

// Group 群組聊天室
type Group struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	CreatedBy uint          `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	Members   []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Messages  []Message     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName gorm table
func (Group) TableName() string {
	return "chat_groups"
}

// GroupMember membership, LastReadAt 只會往前
type GroupMember struct {
	GroupID    uint       `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID     uint       `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	JoinedAt   time.Time  `gorm:"not null" json:"joined_at"`
	LastReadAt *time.Time `json:"last_read_at"`
}

// TableName gorm table
func (GroupMember) TableName() string {
	return "group_members"
}

// CreateGroupReq usecase create group request
type CreateGroupReq struct {
	Name      string
	MemberIDs []uint
}

// GroupSummary group with counts for the directory
type GroupSummary struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	CreatedBy    uint      `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	MembersCount int64     `json:"members_count"`
	UnreadCount  int64     `json:"unread_count"`
}
