package app

import (
	"time"

	"team_chat_service/internal/chat/domain"
)

var testNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

func uptr(v uint) *uint { return &v }

func sptr(s string) *string { return &s }

func company(id uint) *uint { return &id }

func testUser(id uint, companyID uint, first string) *domain.User {
	u := &domain.User{ID: id, FirstName: first, LastName: "T", IsActive: true}
	if companyID != 0 {
		u.CompanyID = company(companyID)
	}
	return u
}
