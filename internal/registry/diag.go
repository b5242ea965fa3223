package registry

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Errorf returns a single error diagnostic about the given source range.
func Errorf(subject hcl.Range, summary, format string, args ...any) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  subject.Ptr(),
	}}
}
