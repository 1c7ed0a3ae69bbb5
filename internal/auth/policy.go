package auth

// AuthorizationPolicy answers whether a Telegram user may perform admin
// operations. The router queries it once per admin request instead of
// scattering membership checks across handlers.
type AuthorizationPolicy interface {
	IsAdmin(tgID int64) bool
}

// AdminList is an AuthorizationPolicy backed by a fixed id list
type AdminList struct {
	ids map[int64]struct{}
}

// NewAdminList builds a policy from the configured admin ids
func NewAdminList(adminIDs []int64) *AdminList {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &AdminList{ids: ids}
}

// IsAdmin reports whether the given Telegram id is in the admin list
func (a *AdminList) IsAdmin(tgID int64) bool {
	_, ok := a.ids[tgID]
	return ok
}
