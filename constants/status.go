package constants

// AnalysisStatus is the canonical outcome stored for an analyzed document.
type AnalysisStatus string

// Stable values (store these exact strings in DB).
const (
	StatusClassified     AnalysisStatus = "CLASSIFIED"      // top class cleared the threshold
	StatusBelowThreshold AnalysisStatus = "BELOW_THRESHOLD" // reclassified as other
	StatusRenamed        AnalysisStatus = "RENAMED"         // classified and moved on disk
	StatusFailed         AnalysisStatus = "FAILED"          // no text could be loaded
)
