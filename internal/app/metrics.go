package app

// DecisionRecorder counts applied decisions and decisions lost to a
// concurrent reviewer. The metrics package satisfies it; services treat
// it as optional.
type DecisionRecorder interface {
	RecordDecision(entity, outcome string)
	RecordConflict(entity string)
}
