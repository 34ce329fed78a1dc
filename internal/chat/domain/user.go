package domain

// User 來自共用 users table, 此服務只讀不寫
type User struct {
	ID                 uint   `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Role               string `json:"role"`
	CompanyID          *uint  `json:"company_id"`
	IsActive           bool   `json:"is_active"`
	IsBot              bool   `json:"is_bot"`
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
}

// FullName first + last
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasTenant user belongs to a company
func (u *User) HasTenant() bool {
	return u.CompanyID != nil && *u.CompanyID != 0
}

// SameTenant both users belong to the same company
func (u *User) SameTenant(other *User) bool {
	if other == nil || !u.HasTenant() || !other.HasTenant() {
		return false
	}
	return *u.CompanyID == *other.CompanyID
}

// UserSummary directory entry
type UserSummary struct {
	User
	FullName    string `json:"full_name"`
	UnreadCount int64  `json:"unread_count"`
}

// UnknownSender sender_name when the author cannot be resolved
const UnknownSender = "Unknown User"
