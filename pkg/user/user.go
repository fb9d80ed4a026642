package user

import "fmt"

// Role is the user's single role name, as assigned by the school management
// panels upstream.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RolePrincipal Role = "PRINCIPAL"
	RoleTeacher   Role = "TEACHER"
	RoleMentor    Role = "MENTOR"
	RoleStudent   Role = "STUDENT"
)

type User struct {
	ID        int
	Username  string
	FirstName string
	LastName  string
	Role      Role
}

// DisplayName is the derived "First Last" string shown on event pills.
func (u User) DisplayName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// Elevated reports whether the role carries staff authority over bookings.
func (r Role) Elevated() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleTeacher, RoleMentor:
		return true
	}
	return false
}

// Capabilities is what an actor may do with the event collection. It is
// resolved once per command from the actor's role and passed explicitly into
// guards instead of re-deriving role checks along the way.
type Capabilities struct {
	// CanViewAll grants the global event fetch; everyone else only loads
	// events they participate in.
	CanViewAll bool
	// CanMutateStatus grants approve/reject on pending bookings.
	CanMutateStatus bool
	// CanDelete grants removal of events in any state.
	CanDelete bool
}

// CapabilitiesOf resolves the capability set for a role. Only admins and
// principals see the whole school's calendar; teachers and mentors moderate
// bookings but load their own participation set.
func CapabilitiesOf(role Role) Capabilities {
	return Capabilities{
		CanViewAll:      role == RoleAdmin || role == RolePrincipal,
		CanMutateStatus: role.Elevated(),
		CanDelete:       role.Elevated(),
	}
}
