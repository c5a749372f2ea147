package authorize

import (
	"fmt"
	"regexp"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage  Action = "manage"  // CRUD + list
	ActionExecute Action = "execute" // run, trigger, start, stop, etc.

	// Scheduling actions
	ActionBook       Action = "book"       // create appointments for a service session
	ActionTransition Action = "transition" // move appointment/clinic through its status lifecycle

	// RBAC-specific actions
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {},
	ActionBook: {}, ActionTransition: {},
	ActionGrant: {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity / auth
	ResourceUser         Resource = "user"
	ResourceAuthSession  Resource = "auth_session"
	ResourceRefreshToken Resource = "refresh_token"

	// Clinic (tenant management)
	ResourceClinic       Resource = "clinic"
	ResourceClinicStatus Resource = "clinic_status"
	ResourceDoctor       Resource = "doctor"
	ResourceCapacity     Resource = "capacity"

	// Service catalog
	ResourceService        Resource = "service"
	ResourceServiceSession Resource = "service_session"

	// Scheduling
	ResourceAppointment        Resource = "appointment"
	ResourceAppointmentSession Resource = "appointment_session"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceAudit  Resource = "audit"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceAuthSession: {}, ResourceRefreshToken: {},
	ResourceClinic: {}, ResourceClinicStatus: {}, ResourceDoctor: {}, ResourceCapacity: {},
	ResourceService: {}, ResourceServiceSession: {},
	ResourceAppointment: {}, ResourceAppointmentSession: {},
	ResourceSystem: {}, ResourceAudit: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform roles (domain = sys)
	RoleSysSuperAdmin Role = "role:sys:superadmin"
	RoleSysAdmin      Role = "role:sys:admin"

	// Clinic roles (domain = clinic:<uuid>)
	RoleClinicOwner   Role = "role:clinic:owner"
	RoleClinicAdmin   Role = "role:clinic:admin"
	RoleClinicDoctor  Role = "role:clinic:doctor"
	RoleClinicStaff   Role = "role:clinic:staff"
	RoleClinicPatient Role = "role:clinic:patient"

	// Private user scope (domain = user:<uuid>)
	RoleUserSelf Role = "role:user:self"
)

var KnownRoles = map[Role]struct{}{
	RoleSysSuperAdmin: {},
	RoleSysAdmin:      {},
	RoleClinicOwner:   {},
	RoleClinicAdmin:   {},
	RoleClinicDoctor:  {},
	RoleClinicStaff:   {},
	RoleClinicPatient: {},
	RoleUserSelf:      {},
}

// Arabic display names
var RoleDisplayNamesAR = map[Role]string{
	RoleSysSuperAdmin: "المشرف العام للمنصة",
	RoleSysAdmin:      "مدير المنصة",
	RoleClinicOwner:   "مالك العيادة",
	RoleClinicAdmin:   "مدير العيادة",
	RoleClinicDoctor:  "طبيب",
	RoleClinicStaff:   "موظف استقبال",
	RoleClinicPatient: "مريض",
	RoleUserSelf:      "المستخدم نفسه",
}

// Clinic member role strings (stored in the clinic membership records)
const (
	ClinicMemberRoleOwner   = "owner"
	ClinicMemberRoleAdmin   = "admin"
	ClinicMemberRoleDoctor  = "doctor"
	ClinicMemberRoleStaff   = "staff"
	ClinicMemberRolePatient = "patient"
)

// ClinicMemberRoleToRBACRole maps stored role values to Casbin roles
var ClinicMemberRoleToRBACRole = map[string]Role{
	ClinicMemberRoleOwner:   RoleClinicOwner,
	ClinicMemberRoleAdmin:   RoleClinicAdmin,
	ClinicMemberRoleDoctor:  RoleClinicDoctor,
	ClinicMemberRoleStaff:   RoleClinicStaff,
	ClinicMemberRolePatient: RoleClinicPatient,
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

// Domain prefixes (for exact domains we generate per entity)
const (
	DomainPrefixClinic Domain = "clinic:"
	DomainPrefixUser   Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

// Domain builders (typed, safe)
func ClinicDomain(clinicID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixClinic, clinicID))
}

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	switch {
	case len(s) > len(DomainPrefixClinic) && s[:len(DomainPrefixClinic)] == string(DomainPrefixClinic):
		return reUUID.MatchString(s[len(DomainPrefixClinic):])
	case len(s) > len(DomainPrefixUser) && s[:len(DomainPrefixUser)] == string(DomainPrefixUser):
		return reUUID.MatchString(s[len(DomainPrefixUser):])
	default:
		return false
	}
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// PolicySubject is the p.sub in Casbin: either a role (preferred) or a user/service id.
type PolicySubject string

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
