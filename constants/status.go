package constants

// CheckStatus is the per-check outcome reported by the auditor.
type CheckStatus string

// Stable values (these exact strings appear in stored reports).
const (
	CheckPass    CheckStatus = "PASS"
	CheckFail    CheckStatus = "FAIL"
	CheckWarning CheckStatus = "WARNING"
	CheckUnknown CheckStatus = "UNKNOWN"
)

// OverallStatus is the aggregate audit outcome.
type OverallStatus string

const (
	OverallPass             OverallStatus = "PASS"
	OverallNeedsImprovement OverallStatus = "NEEDS_IMPROVEMENT"
	OverallFail             OverallStatus = "FAIL"
)

// CheckStatuses lists the valid per-check values in schema order.
var CheckStatuses = []string{
	string(CheckPass),
	string(CheckFail),
	string(CheckWarning),
	string(CheckUnknown),
}

// OverallStatuses lists the valid aggregate values in schema order.
var OverallStatuses = []string{
	string(OverallPass),
	string(OverallNeedsImprovement),
	string(OverallFail),
}

// Valid reports whether s is a known per-check status.
func (s CheckStatus) Valid() bool {
	switch s {
	case CheckPass, CheckFail, CheckWarning, CheckUnknown:
		return true
	}
	return false
}

// Valid reports whether s is a known aggregate status.
func (s OverallStatus) Valid() bool {
	switch s {
	case OverallPass, OverallNeedsImprovement, OverallFail:
		return true
	}
	return false
}
