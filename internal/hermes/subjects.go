package hermes

const (
	SubjectMarksSubmit = "gradebook.marks.submit"
	DurableMarks       = "gradebook-ingest"

	StreamName     = "GRADEBOOK_EVENTS"
	StreamSubjects = "gradebook.>"
	StreamMaxAge   = "2160h" // 90 days
)

// Module lifecycle subjects
func SubjectModuleCreated(moduleID string) string { return "gradebook.module." + moduleID + ".created" }
func SubjectModuleUpdated(moduleID string) string { return "gradebook.module." + moduleID + ".updated" }
func SubjectModuleDeleted(moduleID string) string { return "gradebook.module." + moduleID + ".deleted" }
func SubjectModuleOutcome(moduleID string) string { return "gradebook.module." + moduleID + ".outcome" }

func SubjectAssessmentUpdated(assessmentID string) string {
	return "gradebook.assessment." + assessmentID + ".updated"
}
