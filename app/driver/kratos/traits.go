package kratos

import (
	"encoding/json"
	"fmt"

	kratosclient "github.com/ory/kratos-client-go"

	"identity-facade/app/domain"
)

const (
	stateActive   = "active"
	stateInactive = "inactive"
)

// identityTraits is the trait layout the realm schemas are expected to
// declare. username and email are both password identifiers.
type identityTraits struct {
	Username string     `json:"username"`
	Email    string     `json:"email,omitempty"`
	Name     traitsName `json:"name"`
}

type traitsName struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

func traitsFromUser(user *domain.NewUser) map[string]interface{} {
	traits := map[string]interface{}{
		"username": user.Username,
		"name": map[string]interface{}{
			"first": user.FirstName,
			"last":  user.LastName,
		},
	}
	if user.Email != "" {
		traits["email"] = user.Email
	}
	return traits
}

// decodeTraits reads traits of any shape the client decoded into.
func decodeTraits(raw interface{}) (identityTraits, error) {
	var traits identityTraits
	if raw == nil {
		return traits, nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return traits, fmt.Errorf("failed to encode traits: %w", err)
	}
	if err := json.Unmarshal(payload, &traits); err != nil {
		return traits, fmt.Errorf("failed to decode traits: %w", err)
	}
	return traits, nil
}

func traitsMap(raw interface{}) map[string]interface{} {
	if m, ok := raw.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func passwordCredentials(password string) *kratosclient.IdentityWithCredentials {
	config := kratosclient.NewIdentityWithCredentialsPasswordConfig()
	config.SetPassword(password)

	creds := kratosclient.NewIdentityWithCredentials()
	creds.SetPassword(kratosclient.IdentityWithCredentialsPassword{Config: config})
	return creds
}

func identityToDomain(identity *kratosclient.Identity) (*domain.UserIdentity, error) {
	traits, err := decodeTraits(identity.Traits)
	if err != nil {
		return nil, err
	}

	user := &domain.UserIdentity{
		ID:        identity.Id,
		Username:  traits.Username,
		Email:     traits.Email,
		FirstName: traits.Name.First,
		LastName:  traits.Name.Last,
		// Kratos omits state for identities that were never deactivated
		Enabled: identity.State == nil || identity.GetState() == stateActive,
	}
	if identity.CreatedAt != nil {
		createdAt := identity.GetCreatedAt()
		user.CreatedAt = &createdAt
	}
	return user, nil
}

func stateFor(enabled bool) string {
	if enabled {
		return stateActive
	}
	return stateInactive
}
