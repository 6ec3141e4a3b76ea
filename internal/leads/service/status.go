package service

import "dealerhub_backend/platform/apperr"

// Lead pipeline statuses. Leads are archived, never deleted, so the
// contact history stays auditable.
const (
	StatusNew       = "NEW"
	StatusContacted = "CONTACTED"
	StatusQualified = "QUALIFIED"
	StatusConverted = "CONVERTED"
	StatusArchived  = "ARCHIVED"
)

// allowedTransitions is the forward path through the pipeline.
// Archiving is allowed from any status and is terminal.
var allowedTransitions = map[string][]string{
	StatusNew:       {StatusContacted, StatusArchived},
	StatusContacted: {StatusQualified, StatusArchived},
	StatusQualified: {StatusConverted, StatusArchived},
	StatusConverted: {StatusArchived},
	StatusArchived:  {},
}

func validateTransition(from, to string) error {
	if from == to {
		return apperr.Conflict("lead is already " + to)
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apperr.Conflict("cannot move lead from " + from + " to " + to)
}
