package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"team_chat_service/internal/chat/domain"
	"team_chat_service/internal/chat/repository"
	errprocess "team_chat_service/pkg/err"
)

type hideKey struct{ messageID, userID uint }

type memberKey struct{ groupID, userID uint }

// memStore in-memory UnitOfWork, 失敗的 tx 會還原 snapshot
type memStore struct {
	nextMessageID uint
	nextGroupID   uint
	messages      map[uint]domain.Message
	hides         map[hideKey]time.Time
	groups        map[uint]domain.Group
	members       map[memberKey]domain.GroupMember
}

func newMemStore() *memStore {
	return &memStore{
		messages: map[uint]domain.Message{},
		hides:    map[hideKey]time.Time{},
		groups:   map[uint]domain.Group{},
		members:  map[memberKey]domain.GroupMember{},
	}
}

func (s *memStore) Repos() repository.Repos {
	return repository.Repos{Messages: memMessages{s}, Groups: memGroups{s}}
}

func (s *memStore) WithinTx(_ context.Context, fn func(r repository.Repos) error) error {
	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		*s = *snap
		return err
	}
	return nil
}

func (s *memStore) snapshot() *memStore {
	c := &memStore{
		nextMessageID: s.nextMessageID,
		nextGroupID:   s.nextGroupID,
		messages:      make(map[uint]domain.Message, len(s.messages)),
		hides:         make(map[hideKey]time.Time, len(s.hides)),
		groups:        make(map[uint]domain.Group, len(s.groups)),
		members:       make(map[memberKey]domain.GroupMember, len(s.members)),
	}
	for k, v := range s.messages {
		c.messages[k] = v
	}
	for k, v := range s.hides {
		c.hides[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	return c
}

// sorted by (created_at, id)
func (s *memStore) sorted(keep func(m *domain.Message) bool) []domain.Message {
	out := []domain.Message{}
	for _, m := range s.messages {
		m := m
		if keep(&m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func latest(msgs []domain.Message, limit int) []domain.Message {
	if len(msgs) > limit {
		return msgs[len(msgs)-limit:]
	}
	return msgs
}

func isDirect(m *domain.Message, a, b uint) bool {
	return m.GroupID == nil && m.RecipientID != nil &&
		((m.SenderID == a && *m.RecipientID == b) || (m.SenderID == b && *m.RecipientID == a))
}

type memMessages struct{ s *memStore }

func (r memMessages) Create(_ context.Context, msg *domain.Message) error {
	if (msg.RecipientID == nil) == (msg.GroupID == nil) {
		return errors.New("chk_messages_target violated")
	}
	r.s.nextMessageID++
	msg.ID = r.s.nextMessageID
	r.s.messages[msg.ID] = *msg
	return nil
}

func (r memMessages) CreateBatch(ctx context.Context, msgs []*domain.Message) error {
	for _, m := range msgs {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r memMessages) GetByID(_ context.Context, id uint) (*domain.Message, error) {
	m, ok := r.s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r memMessages) ListGroup(_ context.Context, groupID uint, limit int) ([]domain.Message, error) {
	return latest(r.s.sorted(func(m *domain.Message) bool {
		return m.GroupID != nil && *m.GroupID == groupID
	}), limit), nil
}

func (r memMessages) ListDirect(_ context.Context, userID, otherID uint, limit int) ([]domain.Message, error) {
	return latest(r.s.sorted(func(m *domain.Message) bool {
		return isDirect(m, userID, otherID)
	}), limit), nil
}

func (r memMessages) MarkDirectRead(_ context.Context, senderID, recipientID uint) (int64, error) {
	var n int64
	for id, m := range r.s.messages {
		if m.GroupID == nil && m.SenderID == senderID && m.RecipientID != nil && *m.RecipientID == recipientID && !m.IsRead {
			m.IsRead = true
			r.s.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r memMessages) MarkDeletedGlobally(_ context.Context, id uint) error {
	m, ok := r.s.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.IsDeletedGlobally = true
	r.s.messages[id] = m
	return nil
}

func (r memMessages) Hide(_ context.Context, messageID, userID uint) error {
	k := hideKey{messageID, userID}
	if _, ok := r.s.hides[k]; !ok {
		r.s.hides[k] = time.Now()
	}
	return nil
}

func (r memMessages) HiddenAmong(_ context.Context, userID uint, messageIDs []uint) (map[uint]struct{}, error) {
	out := map[uint]struct{}{}
	for _, id := range messageIDs {
		if _, ok := r.s.hides[hideKey{id, userID}]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (r memMessages) hideWhere(userID uint, keep func(m *domain.Message) bool) int64 {
	var n int64
	for _, m := range r.s.messages {
		m := m
		k := hideKey{m.ID, userID}
		if _, ok := r.s.hides[k]; ok || !keep(&m) {
			continue
		}
		r.s.hides[k] = time.Now()
		n++
	}
	return n
}

func (r memMessages) HideGroup(_ context.Context, groupID, userID uint) (int64, error) {
	return r.hideWhere(userID, func(m *domain.Message) bool {
		return m.GroupID != nil && *m.GroupID == groupID
	}), nil
}

func (r memMessages) HideDirect(_ context.Context, userID, otherID uint) (int64, error) {
	return r.hideWhere(userID, func(m *domain.Message) bool {
		return isDirect(m, userID, otherID)
	}), nil
}

func (r memMessages) CountDirectUnread(_ context.Context, recipientID uint) ([]domain.UnreadCount, error) {
	counts := map[uint]int64{}
	for _, m := range r.s.messages {
		if m.GroupID == nil && m.RecipientID != nil && *m.RecipientID == recipientID && !m.IsRead {
			counts[m.SenderID]++
		}
	}
	out := make([]domain.UnreadCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, domain.UnreadCount{Key: k, Count: c})
	}
	return out, nil
}

func (r memMessages) CountGroupUnread(_ context.Context, userID uint) ([]domain.UnreadCount, error) {
	out := []domain.UnreadCount{}
	for k, gm := range r.s.members {
		if k.userID != userID {
			continue
		}
		var c int64
		for _, m := range r.s.messages {
			if m.GroupID != nil && *m.GroupID == k.groupID && (gm.LastReadAt == nil || m.CreatedAt.After(*gm.LastReadAt)) {
				c++
			}
		}
		if c > 0 {
			out = append(out, domain.UnreadCount{Key: k.groupID, Count: c})
		}
	}
	return out, nil
}

type memGroups struct{ s *memStore }

func (r memGroups) Create(_ context.Context, g *domain.Group) error {
	r.s.nextGroupID++
	g.ID = r.s.nextGroupID
	r.s.groups[g.ID] = *g
	return nil
}

func (r memGroups) GetByID(_ context.Context, id uint) (*domain.Group, error) {
	g, ok := r.s.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r memGroups) GetForUpdate(ctx context.Context, id uint) (*domain.Group, error) {
	return r.GetByID(ctx, id)
}

func (r memGroups) Rename(_ context.Context, id uint, name string) error {
	g, ok := r.s.groups[id]
	if !ok {
		return repository.ErrNotFound
	}
	g.Name = name
	r.s.groups[id] = g
	return nil
}

func (r memGroups) AddMembers(_ context.Context, members []domain.GroupMember) error {
	for _, m := range members {
		k := memberKey{m.GroupID, m.UserID}
		if _, ok := r.s.members[k]; !ok {
			r.s.members[k] = m
		}
	}
	return nil
}

func (r memGroups) IsMember(_ context.Context, groupID, userID uint) (bool, error) {
	_, ok := r.s.members[memberKey{groupID, userID}]
	return ok, nil
}

func (r memGroups) MemberGroupIDs(_ context.Context, userID uint, groupIDs []uint) ([]uint, error) {
	out := []uint{}
	for _, gid := range groupIDs {
		if _, ok := r.s.members[memberKey{gid, userID}]; ok {
			out = append(out, gid)
		}
	}
	return out, nil
}

func (r memGroups) RemoveMember(_ context.Context, groupID, userID uint) error {
	delete(r.s.members, memberKey{groupID, userID})
	return nil
}

func (r memGroups) CountMembers(_ context.Context, groupID uint) (int64, error) {
	var n int64
	for k := range r.s.members {
		if k.groupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r memGroups) AdvanceCursor(_ context.Context, groupID, userID uint, at time.Time) error {
	k := memberKey{groupID, userID}
	m, ok := r.s.members[k]
	if !ok {
		return nil
	}
	if m.LastReadAt == nil || at.After(*m.LastReadAt) {
		m.LastReadAt = &at
		r.s.members[k] = m
	}
	return nil
}

func (r memGroups) ListForUser(ctx context.Context, userID uint) ([]domain.GroupSummary, error) {
	out := []domain.GroupSummary{}
	for k := range r.s.members {
		if k.userID != userID {
			continue
		}
		g := r.s.groups[k.groupID]
		n, _ := r.CountMembers(ctx, g.ID)
		out = append(out, *summaryOf(&g, n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memDirectory in-memory IdentityDirectory
type memDirectory struct {
	users map[uint]*domain.User
}

func (d *memDirectory) Resolve(string) (uint, error) {
	return 0, errors.New("not supported")
}

func (d *memDirectory) Lookup(_ context.Context, userID uint) (*domain.User, error) {
	u, ok := d.users[userID]
	if !ok {
		return nil, errprocess.NotFound("User not found")
	}
	c := *u
	return &c, nil
}

func (d *memDirectory) LookupMany(_ context.Context, ids []uint) ([]domain.User, error) {
	out := []domain.User{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (d *memDirectory) ListTenantUsers(_ context.Context, companyID, excludeID uint) ([]domain.User, error) {
	out := []domain.User{}
	for id, u := range d.users {
		if id != excludeID && u.IsActive && u.CompanyID != nil && *u.CompanyID == companyID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memDirectory) DisplayNames(_ context.Context, ids []uint) (map[uint]string, error) {
	out := map[uint]string{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u.FullName()
		}
	}
	return out, nil
}

// tickingClock 每次呼叫前進一秒
type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}
