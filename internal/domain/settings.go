package domain

// TriageSettings is administrator-tunable policy state. It is read fresh at
// the policy-evaluation step of every triage run; updates are not coupled to
// in-flight runs.
type TriageSettings struct {
	AutoCloseEnabled    bool
	ConfidenceThreshold float64
	SLAHours            int
}

// DefaultTriageSettings returns the values used when nothing has been stored.
func DefaultTriageSettings() TriageSettings {
	return TriageSettings{
		AutoCloseEnabled:    true,
		ConfidenceThreshold: 0.78,
		SLAHours:            24,
	}
}
