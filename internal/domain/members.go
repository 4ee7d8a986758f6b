package domain

import (
	"errors"
	"time"

	"github.com/samber/lo"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already exists")
	ErrMembersLimitReached = errors.New("members limit reached")
)

type Member struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	IsHost   bool      `json:"isHost"`
	IsOnline bool      `json:"isOnline"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Members keeps members in join order. A limit below 1 means unlimited.
type Members struct {
	list  []Member
	limit int
}

func NewMembers(limit int) *Members {
	return &Members{limit: limit}
}

func (m Members) Length() int {
	return len(m.list)
}

func (m Members) AsList() []Member {
	return append([]Member(nil), m.list...)
}

func (m Members) GetByID(id string) (Member, int, error) {
	_, index, ok := lo.FindIndexOf(m.list, func(member Member) bool {
		return member.UserID == id
	})
	if !ok {
		return Member{}, -1, ErrMemberNotFound
	}

	return m.list[index], index, nil
}

func (m Members) First() (Member, bool) {
	if len(m.list) == 0 {
		return Member{}, false
	}

	return m.list[0], true
}

func (m Members) OnlineCount() int {
	return lo.CountBy(m.list, func(member Member) bool {
		return member.IsOnline
	})
}

func (m *Members) Add(member Member) error {
	if _, _, err := m.GetByID(member.UserID); err == nil {
		return ErrMemberAlreadyExists
	}

	if m.limit > 0 && m.Length() >= m.limit {
		return ErrMembersLimitReached
	}

	m.list = append(m.list, member)
	return nil
}

func (m *Members) Update(id string, fn func(*Member)) error {
	_, index, err := m.GetByID(id)
	if err != nil {
		return err
	}

	fn(&m.list[index])
	return nil
}

func (m *Members) RemoveByID(id string) (Member, error) {
	member, index, err := m.GetByID(id)
	if err != nil {
		return Member{}, err
	}

	m.list = append(m.list[:index], m.list[index+1:]...)
	return member, nil
}
