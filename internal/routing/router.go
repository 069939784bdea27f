// Package routing decides where a notification click takes each role.
package routing

import "deliveryPortal/models"

// Route paths served by the portal.
const (
	RouteAdminOrders      = "/admin/orders"
	RouteClientOrders     = "/client/orders"
	RouteLivreurDashboard = "/livreur/dashboard"
	RouteLivreurProfile   = "/livreur/profile"
	RouteLogin            = "/login"
)

// targets is the static (notification type, role) navigation table. Pairs
// absent from the table do not navigate: the notification stays visible for
// manual dismissal.
var targets = map[models.NotificationType]map[models.Role]string{
	models.NotificationOrderCreated: {
		models.RoleAdmin: RouteAdminOrders,
	},
	models.NotificationOrderDelivered: {
		models.RoleAdmin: RouteAdminOrders,
	},
	models.NotificationOrderAssigned: {
		models.RoleLivreur: RouteLivreurDashboard,
	},
	models.NotificationOrderStatusUpdate: {
		models.RoleAdmin:  RouteAdminOrders,
		models.RoleClient: RouteClientOrders,
	},
	models.NotificationAccountCreated: {
		models.RoleLivreur: RouteLivreurProfile,
	},
}

// ResolveTarget returns the route a notification of the given type should
// open for the given role, or "" when the pair is unmapped and the caller
// must not navigate.
func ResolveTarget(t models.NotificationType, role models.Role) string {
	return targets[t][role]
}
