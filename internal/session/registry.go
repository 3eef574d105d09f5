package session

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/limbo/habitboard/pkg/entity"
)

// Palette is the fixed set of member colors.
var Palette = []string{"#2a9d8f", "#e76f51", "#264653", "#f4a261", "#e9c46a"}

// MembershipRegistry holds the board's members between reloads.
type MembershipRegistry struct {
	members []*entity.Member
}

func (r *MembershipRegistry) Replace(members []*entity.Member) {
	r.members = members
}

func (r *MembershipRegistry) All() []*entity.Member {
	return r.members
}

func (r *MembershipRegistry) ByID(id uuid.UUID) *entity.Member {
	for _, m := range r.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// ByIdentity resolves the member record bound to an authenticated user.
func (r *MembershipRegistry) ByIdentity(userID uuid.UUID) *entity.Member {
	for _, m := range r.members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// Patch rewrites a member's editable fields locally after a successful
// store update.
func (r *MembershipRegistry) Patch(id uuid.UUID, name, color string) {
	if m := r.ByID(id); m != nil {
		m.Name = name
		m.Color = color
	}
}

// PickColor prefers the first palette color no existing member uses and
// falls back to a random palette pick when all are taken.
func PickColor(members []*entity.Member) string {
	used := make(map[string]struct{}, len(members))
	for _, m := range members {
		used[m.Color] = struct{}{}
	}
	for _, color := range Palette {
		if _, taken := used[color]; !taken {
			return color
		}
	}
	return Palette[rand.Intn(len(Palette))]
}
