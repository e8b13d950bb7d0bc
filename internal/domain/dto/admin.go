package dto

import "time"

// Permissions an admin may hold. Super admins hold all of them implicitly.
const (
	PermViewAllFarmers    = "view_all_farmers"
	PermViewFarmerDetails = "view_farmer_details"
	PermViewFinancialData = "view_financial_data"
	PermViewSystemMetrics = "view_system_metrics"
	PermExportData        = "export_data"
	PermManageAdmins      = "manage_admins"
	PermViewAuditLogs     = "view_audit_logs"
)

// AllPermissions lists every permission in display order.
var AllPermissions = []string{
	PermViewAllFarmers,
	PermViewFarmerDetails,
	PermViewFinancialData,
	PermViewSystemMetrics,
	PermExportData,
	PermManageAdmins,
	PermViewAuditLogs,
}

// AdminUser is an admin account as shown in admin management.
type AdminUser struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	PhoneNumber  string     `json:"phone_number"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	Permissions  []string   `json:"permissions"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// AdminUsers is the body of GET /admin/users.
type AdminUsers struct {
	Users []AdminUser `json:"users"`
	Count int         `json:"count"`
}

// CreateAdminRequest is the body of POST /admin/users. When PhoneNumber
// belongs to an existing account that account is promoted and Password is
// ignored.
type CreateAdminRequest struct {
	Name         string   `json:"name"`
	PhoneNumber  string   `json:"phone_number"`
	Password     string   `json:"password,omitempty"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	Permissions  []string `json:"permissions"`
}

// UpdateAdminRequest is the body of PUT /admin/users/{id}. Nil fields are
// left unchanged.
type UpdateAdminRequest struct {
	Name         *string   `json:"name,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	IsSuperAdmin *bool     `json:"is_super_admin,omitempty"`
	Permissions  *[]string `json:"permissions,omitempty"`
}

// Message is a plain acknowledgement body.
type Message struct {
	Message string `json:"message"`
}
