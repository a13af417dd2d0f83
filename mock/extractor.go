package mock

import "github.com/slokaweb/versefetch"

var _ versefetch.VerseExtractor = (*VerseExtractor)(nil)

// VerseExtractor is a mock implementation of versefetch.VerseExtractor.
type VerseExtractor struct {
	ExtractFn func(html string) ([]string, error)
}

func (e *VerseExtractor) Extract(html string) ([]string, error) {
	return e.ExtractFn(html)
}

var _ versefetch.Repairer = (*Repairer)(nil)

// Repairer is a mock implementation of versefetch.Repairer.
type Repairer struct {
	RepairFn func(text string) string
}

func (r *Repairer) Repair(text string) string {
	return r.RepairFn(text)
}
