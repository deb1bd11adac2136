package liststate

import (
	"strconv"
	"strings"

	"github.com/devconsole/liststate/internal/errors"
)

// Kind identifies a resource list. The set of kinds is closed.
type Kind int

const (
	// Generic serves screens without a dedicated processor. Unknown query
	// keys are passed through unchanged.
	Generic Kind = iota
	Devices
	Deployments
	Releases
	AuditLogs
	Tenants

	kindCount
)

var kindNames = [kindCount]string{
	Generic:     "generic",
	Devices:     "devices",
	Deployments: "deployments",
	Releases:    "releases",
	AuditLogs:   "auditlogs",
	Tenants:     "tenants",
}

var kindBasePaths = [kindCount]string{
	Generic:     "/",
	Devices:     "/devices",
	Deployments: "/deployments",
	Releases:    "/releases",
	AuditLogs:   "/auditlogs",
	Tenants:     "/tenants",
}

// ErrUnknownResource is returned for a Kind or resource name without a
// registered processor. Compare with errors.Is.
var ErrUnknownResource = errors.New("E001")

// Kinds returns every registered kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is a registered kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// String returns the registry name of k (e.g., "devices").
func (k Kind) String() string {
	if !k.Valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// DefaultBasePath returns the root route of the resource.
func (k Kind) DefaultBasePath() string {
	if !k.Valid() {
		return "/"
	}
	return kindBasePaths[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, unknownKind(k.String())
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a resource name. Matching is case-insensitive and
// accepts "audit-logs" and "audit_logs" for AuditLogs.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "", "_", "").Replace(normalized)
	for k, n := range kindNames {
		if n == normalized {
			return Kind(k), nil
		}
	}
	return 0, unknownKind(name)
}

func unknownKind(name string) error {
	return errors.New("E001").
		WithDetail("no processor registered for " + strconv.Quote(strings.TrimSpace(name))).
		WithSuggestion("Use one of: " + strings.Join(kindNames[:], ", "))
}
