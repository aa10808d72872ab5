package auth

import "storefront-service/internal/domain"

type Resource string

type Action string

const (
	ResourceSession  Resource = "session"
	ResourceProfile  Resource = "profile"
	ResourceUsers    Resource = "users"
	ResourceProducts Resource = "products"
	ResourceCart     Resource = "cart"
	ResourceOrders   Resource = "orders"
	ResourceUploads  Resource = "uploads"
)

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionLogout   Action = "logout"
	ActionCheckout Action = "checkout"
	ActionReadOwn  Action = "read_own"
	ActionReadAll  Action = "read_all"
)

type Capability struct {
	Resource Resource
	Action   Action
}

var (
	anyRole   = []domain.Role{domain.RoleUser, domain.RoleAdmin}
	adminOnly = []domain.Role{domain.RoleAdmin}
)

// Policy lists which roles hold each capability. A capability that is not
// listed is denied to everyone.
var Policy = map[Capability][]domain.Role{
	{ResourceSession, ActionLogout}: anyRole,

	{ResourceProfile, ActionRead}:   anyRole,
	{ResourceProfile, ActionUpdate}: anyRole,
	{ResourceProfile, ActionDelete}: anyRole,

	{ResourceUsers, ActionRead}:   adminOnly,
	{ResourceUsers, ActionWrite}:  adminOnly,
	{ResourceUsers, ActionDelete}: adminOnly,

	{ResourceProducts, ActionRead}:   anyRole,
	{ResourceProducts, ActionWrite}:  adminOnly,
	{ResourceProducts, ActionDelete}: adminOnly,

	{ResourceCart, ActionRead}:  anyRole,
	{ResourceCart, ActionWrite}: anyRole,

	{ResourceOrders, ActionCheckout}: anyRole,
	{ResourceOrders, ActionReadOwn}:  anyRole,
	{ResourceOrders, ActionReadAll}:  adminOnly,
	{ResourceOrders, ActionUpdate}:   adminOnly,
	{ResourceOrders, ActionDelete}:   adminOnly,

	{ResourceUploads, ActionRead}: anyRole,
}

func Allowed(role domain.Role, resource Resource, action Action) bool {
	for _, r := range Policy[Capability{resource, action}] {
		if r == role {
			return true
		}
	}
	return false
}
