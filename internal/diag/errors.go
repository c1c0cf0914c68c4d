package diag

import (
	"sort"

	multierror "github.com/hashicorp/go-multierror"
)

// Sort orders diagnostics by file and position, keeping the original order
// for diagnostics that start at the same offset.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Span, diags[j].Span
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Start < b.Start
	})
}

// HasErrors reports whether any diagnostic is an error. When strict is set,
// warnings count as errors too.
func HasErrors(diags []Diagnostic, strict bool) bool {
	for _, d := range diags {
		switch d.Severity {
		case SeverityError, "":
			return true
		case SeverityWarning:
			if strict {
				return true
			}
		}
	}
	return false
}

// Join folds every error-severity diagnostic into a single error. It returns
// nil when there is nothing to report.
func Join(diags []Diagnostic, strict bool) error {
	var result *multierror.Error
	for _, d := range diags {
		if d.Severity == SeverityNote || (d.Severity == SeverityWarning && !strict) {
			continue
		}
		result = multierror.Append(result, d)
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = func(errs []error) string {
		if len(errs) == 1 {
			return errs[0].Error()
		}
		msg := errs[0].Error()
		for _, err := range errs[1:] {
			msg += "\n" + err.Error()
		}
		return msg
	}
	return result.ErrorOrNil()
}
