package email

const (
	subjectLeadAssignedFmt     = "New lead: %s"
	subjectFollowUpReminderFmt = "Follow-up due: %s"
	subjectUnassignedLeadAlert = "Lead waiting in the unassigned pool"
	subjectLeadReassignedFmt   = "Lead transferred to you: %s"
)
