package authorize

import (
	"context"
	"log/slog"
)

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	// System-level policies (domain: sys)
	sysPolicies := []PermissionPolicy{
		// SuperAdmin: god mode
		{RoleSysSuperAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},

		// SysAdmin: manage the platform except RBAC
		{RoleSysAdmin, DomainSys, ResourceUser, ActionManage, EffectAllow},
		{RoleSysAdmin, DomainSys, ResourceClinic, ActionManage, EffectAllow},
		{RoleSysAdmin, DomainSys, ResourceClinicStatus, ActionTransition, EffectAllow},
		{RoleSysAdmin, DomainSys, ResourceAudit, ActionRead, EffectAllow},
	}

	// Clinic-level policies (domain: clinic:*)
	clinicPolicies := []PermissionPolicy{
		// ClinicOwner: full control within the clinic
		{RoleClinicOwner, WildcardDomain, ResourceClinic, ActionManage, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceClinicStatus, ActionTransition, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceDoctor, ActionManage, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceService, ActionManage, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceServiceSession, ActionManage, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceAppointment, ActionManage, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceAppointmentSession, ActionManage, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceCapacity, ActionRead, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceRBAC, ActionGrant, EffectAllow},
		{RoleClinicOwner, WildcardDomain, ResourceRBAC, ActionRevoke, EffectAllow},

		// ClinicAdmin: manage scheduling and catalog but not RBAC
		{RoleClinicAdmin, WildcardDomain, ResourceClinic, ActionUpdate, EffectAllow},
		{RoleClinicAdmin, WildcardDomain, ResourceDoctor, ActionManage, EffectAllow},
		{RoleClinicAdmin, WildcardDomain, ResourceService, ActionManage, EffectAllow},
		{RoleClinicAdmin, WildcardDomain, ResourceServiceSession, ActionManage, EffectAllow},
		{RoleClinicAdmin, WildcardDomain, ResourceAppointment, ActionManage, EffectAllow},
		{RoleClinicAdmin, WildcardDomain, ResourceAppointmentSession, ActionManage, EffectAllow},
		{RoleClinicAdmin, WildcardDomain, ResourceCapacity, ActionRead, EffectAllow},

		// ClinicDoctor: run their own schedule
		{RoleClinicDoctor, WildcardDomain, ResourceAppointment, ActionRead, EffectAllow},
		{RoleClinicDoctor, WildcardDomain, ResourceAppointment, ActionList, EffectAllow},
		{RoleClinicDoctor, WildcardDomain, ResourceAppointment, ActionTransition, EffectAllow},
		{RoleClinicDoctor, WildcardDomain, ResourceAppointmentSession, ActionRead, EffectAllow},
		{RoleClinicDoctor, WildcardDomain, ResourceService, ActionRead, EffectAllow},
		{RoleClinicDoctor, WildcardDomain, ResourceServiceSession, ActionRead, EffectAllow},

		// ClinicStaff: front-desk booking
		{RoleClinicStaff, WildcardDomain, ResourceAppointment, ActionBook, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceAppointment, ActionRead, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceAppointment, ActionList, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceAppointment, ActionTransition, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceAppointmentSession, ActionRead, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceService, ActionRead, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceServiceSession, ActionRead, EffectAllow},
		{RoleClinicStaff, WildcardDomain, ResourceCapacity, ActionRead, EffectAllow},

		// ClinicPatient: book and see their own visits
		{RoleClinicPatient, WildcardDomain, ResourceAppointment, ActionBook, EffectAllow},
		{RoleClinicPatient, WildcardDomain, ResourceAppointment, ActionRead, EffectAllow},
		{RoleClinicPatient, WildcardDomain, ResourceService, ActionRead, EffectAllow},
		{RoleClinicPatient, WildcardDomain, ResourceServiceSession, ActionRead, EffectAllow},
	}

	// User-level policies (domain: user:*)
	userPolicies := []PermissionPolicy{
		// UserSelf: full control over own resources
		{RoleUserSelf, WildcardDomain, ResourceUser, ActionManage, EffectAllow},
		{RoleUserSelf, WildcardDomain, ResourceAuthSession, ActionManage, EffectAllow},
		{RoleUserSelf, WildcardDomain, ResourceRefreshToken, ActionManage, EffectAllow},
	}

	allPolicies := append(append(sysPolicies, clinicPolicies...), userPolicies...)

	for _, p := range allPolicies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(allPolicies))
	return nil
}

// AssignUserSelfRole assigns the user:self role in the user's private domain.
// Call this when creating a new user.
func AssignUserSelfRole(ctx context.Context, auth IAuthorization, userID string) error {
	domain := UserDomain(userID)
	subject := GroupSubject(userID)

	_, err := auth.AddRoleForUserInDomain(ctx, subject, RoleUserSelf, domain)
	return err
}

// AssignClinicOwnerRole assigns the clinic:owner role to a user for a specific clinic.
// Call this when creating a new clinic.
func AssignClinicOwnerRole(ctx context.Context, auth IAuthorization, userID, clinicID string) error {
	domain := ClinicDomain(clinicID)
	subject := GroupSubject(userID)

	_, err := auth.AddRoleForUserInDomain(ctx, subject, RoleClinicOwner, domain)
	return err
}

// AssignClinicRole assigns a clinic role to a user for a specific clinic.
// Use this when adding members to a clinic with a specific role.
// Valid roles: RoleClinicAdmin, RoleClinicDoctor, RoleClinicStaff, RoleClinicPatient
func AssignClinicRole(ctx context.Context, auth IAuthorization, userID, clinicID string, role Role) error {
	// Validate role is a clinic role
	switch role {
	case RoleClinicOwner, RoleClinicAdmin, RoleClinicDoctor, RoleClinicStaff, RoleClinicPatient:
		// valid clinic roles
	default:
		return ErrInvalidArgs
	}

	domain := ClinicDomain(clinicID)
	subject := GroupSubject(userID)

	_, err := auth.AddRoleForUserInDomain(ctx, subject, role, domain)
	return err
}

// RemoveClinicRole removes a clinic role from a user for a specific clinic.
func RemoveClinicRole(ctx context.Context, auth IAuthorization, userID, clinicID string, role Role) error {
	domain := ClinicDomain(clinicID)
	subject := GroupSubject(userID)

	_, err := auth.RemoveRoleForUserInDomain(ctx, subject, role, domain)
	return err
}

// GetClinicRoles returns all roles a user has in a specific clinic.
func GetClinicRoles(ctx context.Context, auth IAuthorization, userID, clinicID string) ([]Role, error) {
	domain := ClinicDomain(clinicID)
	subject := GroupSubject(userID)

	return auth.GetRolesForUserInDomain(ctx, subject, domain)
}

// AssignSystemRole assigns a system-level role to a user.
// Valid roles: RoleSysAdmin
// Note: RoleSysSuperAdmin should be assigned manually/carefully.
func AssignSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	switch role {
	case RoleSysAdmin:
		// valid system roles that can be assigned programmatically
	case RoleSysSuperAdmin:
		// superadmin is valid but should be assigned with caution
	default:
		return ErrInvalidArgs
	}

	subject := GroupSubject(userID)
	_, err := auth.AddRoleForUserInDomain(ctx, subject, role, DomainSys)
	return err
}

// RemoveSystemRole removes a system-level role from a user.
func RemoveSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	subject := GroupSubject(userID)
	_, err := auth.RemoveRoleForUserInDomain(ctx, subject, role, DomainSys)
	return err
}
