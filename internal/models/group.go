package models

// Roles a member can hold within a group. Admins may edit or delete the
// group and manage membership; members may record expenses and settlements.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership ties a user to a group with a role.
type Membership struct {
	// UserID references the member's user account.
	UserID string

	// Role is RoleAdmin or RoleMember.
	Role string
}

// Group represents a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Members is the group's roster. Order is insertion order and is
	// significant: the settlement reducer breaks ties by roster order.
	Members []Membership

	// CreatedBy is the user ID of the group's creator.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member returns the membership entry for userID, or nil if the user is
// not in the roster.
func (g *Group) Member(userID string) *Membership {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// HasMember reports whether userID is in the roster.
func (g *Group) HasMember(userID string) bool {
	return g.Member(userID) != nil
}

// IsAdmin reports whether userID holds the admin role.
func (g *Group) IsAdmin(userID string) bool {
	m := g.Member(userID)
	return m != nil && m.Role == RoleAdmin
}

// MemberIDs returns the roster's user IDs in roster order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}
