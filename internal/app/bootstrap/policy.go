// internal/app/bootstrap/policy.go
package bootstrap

import (
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/system/auth"
)

// accessPolicy is the authorization table applied when features are
// mounted. Every mount names one of these gates explicitly.
type accessPolicy struct {
	// directory writes and moderation-status changes
	writes func(http.Handler) http.Handler
	// registration and submission review, including their list endpoints
	review func(http.Handler) http.Handler
	// surfaces that have always required staff: contacts admin
	staff func(http.Handler) http.Handler
}

// policyFor builds the table. With enforce unset, directory writes and
// review actions stay open to anonymous callers.
func policyFor(enforce bool) accessPolicy {
	return accessPolicy{
		writes: auth.StaffWritesIf(enforce),
		review: auth.StaffIf(enforce),
		staff:  auth.RequireStaff,
	}
}
