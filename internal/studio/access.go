package studio

// AccessPolicy is the capability set a studio gets from its plan status.
type AccessPolicy struct {
	CanView           bool `json:"can_view"`
	CanCreate         bool `json:"can_create"`
	CanEdit           bool `json:"can_edit"`
	CanExport         bool `json:"can_export"`
	CanBook           bool `json:"can_book"`
	CanPurchase       bool `json:"can_purchase"`
	CanAccessSettings bool `json:"can_access_settings"`
	IsFullyLocked     bool `json:"is_fully_locked"`
}

var accessPolicies = map[PlanStatus]AccessPolicy{
	StatusTrialing: {
		CanView:           true,
		CanCreate:         true,
		CanEdit:           true,
		CanExport:         true,
		CanBook:           true,
		CanPurchase:       true,
		CanAccessSettings: true,
	},
	StatusActive: {
		CanView:           true,
		CanCreate:         true,
		CanEdit:           true,
		CanExport:         true,
		CanBook:           true,
		CanPurchase:       true,
		CanAccessSettings: true,
	},
	StatusPastDue: {
		CanView:           true,
		CanEdit:           true,
		CanExport:         true,
		CanAccessSettings: true,
	},
	StatusGrace: {
		CanView:           true,
		CanExport:         true,
		CanAccessSettings: true,
	},
	StatusCanceled: {
		IsFullyLocked: true,
	},
}

// PolicyFor maps a plan status to its capability set. Unknown statuses are
// fully locked.
func PolicyFor(status PlanStatus) AccessPolicy {
	policy, ok := accessPolicies[status]
	if !ok {
		return AccessPolicy{IsFullyLocked: true}
	}
	return policy
}
