package keycloak

import (
	"time"

	"github.com/Nerzal/gocloak/v13"

	"identity-facade/app/domain"
)

func toKeycloakUser(user *domain.NewUser) gocloak.User {
	rep := gocloak.User{
		Username: gocloak.StringP(user.Username),
		Enabled:  gocloak.BoolP(user.Enabled),
	}
	if user.Email != "" {
		rep.Email = gocloak.StringP(user.Email)
	}
	if user.FirstName != "" {
		rep.FirstName = gocloak.StringP(user.FirstName)
	}
	if user.LastName != "" {
		rep.LastName = gocloak.StringP(user.LastName)
	}
	if user.Credential.Secret != "" {
		rep.Credentials = &[]gocloak.CredentialRepresentation{{
			Type:      gocloak.StringP(user.Credential.Type),
			Value:     gocloak.StringP(user.Credential.Secret),
			Temporary: gocloak.BoolP(false),
		}}
	}
	return rep
}

func toIdentity(u *gocloak.User) *domain.UserIdentity {
	identity := &domain.UserIdentity{
		ID:        deref(u.ID),
		Username:  deref(u.Username),
		Email:     deref(u.Email),
		FirstName: deref(u.FirstName),
		LastName:  deref(u.LastName),
		Enabled:   deref(u.Enabled),
	}
	if ms := deref(u.CreatedTimestamp); ms > 0 {
		created := time.UnixMilli(ms).UTC()
		identity.CreatedAt = &created
	}
	return identity
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
