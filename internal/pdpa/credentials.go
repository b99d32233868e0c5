package pdpa

import (
	"strings"

	dErrors "containerbase/pkg/domain-errors"
)

// Environment keys recognised by the credential gate.
const (
	// ServiceRoleKeyEnv holds a credential with full backend privileges. Its
	// presence in a worker environment is a violation whatever its value.
	ServiceRoleKeyEnv = "SUPABASE_SERVICE_ROLE_KEY"
	// AnonKeyEnv holds the scoped credential the worker is allowed to use.
	AnonKeyEnv = "SUPABASE_ANON_KEY"
)

// permittedKeys lists every key that survives sanitisation.
var permittedKeys = []string{AnonKeyEnv}

// CredentialSet is a sanitised view of the process environment holding only
// permitted keys.
type CredentialSet map[string]string

// AnonKey returns the scoped credential.
func (c CredentialSet) AnonKey() string {
	return c[AnonKeyEnv]
}

// Keys returns the names held by the set in a stable order.
func (c CredentialSet) Keys() []string {
	keys := make([]string, 0, len(c))
	for _, k := range permittedKeys {
		if _, ok := c[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// ValidateCredentials enforces credential isolation for the low-trust worker.
// It fails with CodeServiceRoleForbidden when the service-role key is present
// (value never read) or when the anon key is missing or empty. On success it
// returns a new set containing only permitted keys.
func ValidateCredentials(env map[string]string) (CredentialSet, error) {
	if _, present := env[ServiceRoleKeyEnv]; present {
		return nil, dErrors.New(dErrors.CodeServiceRoleForbidden,
			"service role key must not be provided to OCR worker")
	}

	anon, ok := env[AnonKeyEnv]
	if !ok || anon == "" {
		return nil, dErrors.New(dErrors.CodeServiceRoleForbidden,
			"required credential missing: "+AnonKeyEnv)
	}

	sanitized := make(CredentialSet, len(permittedKeys))
	for _, k := range permittedKeys {
		if v, ok := env[k]; ok {
			sanitized[k] = v
		}
	}
	return sanitized, nil
}

// EnvironFromOS converts "KEY=value" pairs, as returned by os.Environ, into a
// mapping. Entries without '=' are kept with an empty value so that key
// presence is still visible to ValidateCredentials.
func EnvironFromOS(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		if k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
