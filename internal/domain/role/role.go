// Package role defines the actor roles the approval workflow gates on.
// Identity itself (who the actor is) comes from the gateway; the engine only
// ever sees an (actorId, role) pair.
package role

import "errors"

// ErrForbidden is returned whenever an action is attempted by a role the
// workflow does not gate it to.
var ErrForbidden = errors.New("role not allowed to perform this action")

type Role string

const (
	PropertyConsultant Role = "property_consultant"
	SalesManager       Role = "sales_manager"
	FinancialManager   Role = "financial_manager"
	FinancialAdmin     Role = "financial_admin"
	Chairman           Role = "chairman"
	ViceChairman       Role = "vice_chairman"
	CEO                Role = "ceo"
	Admin              Role = "admin"
	Superadmin         Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case PropertyConsultant, SalesManager, FinancialManager, FinancialAdmin,
		Chairman, ViceChairman, CEO, Admin, Superadmin:
		return true
	}
	return false
}

// TopManagement reports whether the role sits in the executive tier that
// votes on pending_tm plans and approves overrides.
func (r Role) TopManagement() bool {
	switch r {
	case Chairman, ViceChairman, CEO:
		return true
	}
	return false
}

// Superuser roles bypass the per-status role gates entirely.
func (r Role) Superuser() bool { return r == Superadmin }
