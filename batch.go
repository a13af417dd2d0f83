package versefetch

// ChapterOutcome is one successfully processed chapter in a batch summary.
// JSON field names match the summary format of the archive's long-lived
// scraping scripts.
type ChapterOutcome struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	OutputPath string `json:"file"`
	VerseCount int    `json:"verses_count"`
}

// BatchSummary is the auditable outcome of one batch run. It is owned by
// the orchestrator, mutated monotonically while the run progresses, and
// persisted once at the end.
type BatchSummary struct {
	RunID         string           `json:"run_id"`
	Timestamp     string           `json:"timestamp"`
	TotalChapters int              `json:"total_chapters"`
	Successful    int              `json:"successful"`
	Failed        int              `json:"failed"`
	Chapters      []ChapterOutcome `json:"chapters"`
}

// SummaryFilename is the fixed name of the batch summary file inside the
// output directory.
const SummaryFilename = "scraping_summary.json"

// SummaryWriter persists a batch summary to the output directory.
type SummaryWriter interface {
	WriteSummary(summary *BatchSummary, dir string) error
}
