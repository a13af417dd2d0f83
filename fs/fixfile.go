package fs

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/slokaweb/versefetch"
)

// FixFile applies encoding repair to a previously written JSON record.
// When output is empty the repaired record is written next to the input
// with a "_fixed" suffix. Useful for files scraped before the repair pass
// existed.
func FixFile(path, output string, repairer versefetch.Repairer, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return versefetch.Errorf(versefetch.ENOTFOUND, "read %s: %v", path, err)
	}

	var rec versefetch.ChapterRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return versefetch.Errorf(versefetch.EINVALID, "parse %s: %v", path, err)
	}

	for i, verse := range rec.Verses {
		rec.Verses[i] = repairer.Repair(verse)
	}

	if output == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		output = filepath.Join(filepath.Dir(path), base+"_fixed.json")
	}

	fixed, err := marshalIndented(&rec)
	if err != nil {
		return versefetch.Errorf(versefetch.EINTERNAL, "encode %s: %v", output, err)
	}
	if err := writeFile(output, fixed); err != nil {
		return err
	}

	log(logger).Info("encoding fixed", "input", path, "output", output, "verses", len(rec.Verses))
	return nil
}
