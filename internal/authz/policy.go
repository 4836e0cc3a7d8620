// Package authz decides what a caller may do. It is a pure lookup over
// (role, action, resource) with an ownership override for user records;
// state-dependent borrow/return rules live in the borrow workflow.
package authz

// Role is a user's role as stored on the account.
type Role string

const (
	RoleMember    Role = "Member"
	RoleAdmin     Role = "Admin"
	RoleLibrarian Role = "Librarian"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin || r == RoleLibrarian
}

type Action string

const (
	ActionViewAny Action = "viewAny"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionBorrow  Action = "borrow"
	ActionReturn  Action = "return"
)

type Resource string

const (
	ResourceUser         Resource = "user"
	ResourceAuthor       Resource = "author"
	ResourceBook         Resource = "book"
	ResourceBorrowRecord Resource = "borrowRecord"
)

var rules = map[Resource]map[Action][]Role{
	ResourceAuthor: {
		ActionViewAny: {RoleMember, RoleLibrarian, RoleAdmin},
		ActionView:    {RoleMember, RoleLibrarian, RoleAdmin},
		ActionCreate:  {RoleLibrarian, RoleAdmin},
		ActionUpdate:  {RoleLibrarian, RoleAdmin},
		ActionDelete:  {RoleAdmin},
	},
	ResourceBook: {
		ActionViewAny: {RoleMember, RoleLibrarian, RoleAdmin},
		ActionView:    {RoleMember, RoleLibrarian, RoleAdmin},
		ActionCreate:  {RoleLibrarian, RoleAdmin},
		ActionUpdate:  {RoleLibrarian, RoleAdmin},
		ActionDelete:  {RoleAdmin},
		ActionBorrow:  {RoleMember, RoleAdmin},
		ActionReturn:  {RoleMember, RoleAdmin},
	},
	ResourceUser: {
		ActionViewAny: {RoleAdmin},
		ActionView:    {RoleAdmin},
		ActionUpdate:  {RoleAdmin},
		ActionDelete:  {RoleAdmin},
	},
	ResourceBorrowRecord: {
		ActionViewAny: {RoleLibrarian, RoleAdmin},
		ActionView:    {RoleLibrarian, RoleAdmin},
	},
}

// Allows reports whether role may perform action on resource.
func Allows(role Role, action Action, resource Resource) bool {
	actions, ok := rules[resource]
	if !ok {
		return false
	}
	for _, allowed := range actions[action] {
		if allowed == role {
			return true
		}
	}
	return false
}

// AllowsUser applies the ownership override: a user may view and update
// their own record regardless of role. Everything else falls back to the
// role table.
func AllowsUser(role Role, action Action, callerID, targetID int64) bool {
	if callerID != 0 && callerID == targetID && (action == ActionView || action == ActionUpdate) {
		return true
	}
	return Allows(role, action, ResourceUser)
}
