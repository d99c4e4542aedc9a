package refs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/govspec/config"
	"github.com/c360studio/govspec/diag"
)

// ScanResult is the outcome of a source tree scan.
type ScanResult struct {
	Report       diag.Report
	FilesScanned int
	RefsFound    int
}

// ScanSource walks the configured source roots and validates every inline
// mention found in matching files. Scanned files are never mutated. Because
// the source tree is outside the store's control, unknown ids here degrade
// to warnings instead of the errors they would be inside document content;
// outdated targets warn as everywhere else. Each finding reports file path
// and line.
func ScanSource(cfg *config.Config, ix *Index, m Matcher) (*ScanResult, error) {
	res := &ScanResult{}
	if !cfg.Scan.Enabled {
		return res, nil
	}

	for _, pat := range append(append([]string{}, cfg.Scan.Include...), cfg.Scan.Exclude...) {
		if !doublestar.ValidatePattern(pat) {
			res.Report.Addf(diag.CodeConfigInvalid, "scan",
				"invalid scan glob %q", pat)
			return res, nil
		}
	}

	for _, root := range cfg.Scan.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if !matchAny(cfg.Scan.Include, rel) || matchAny(cfg.Scan.Exclude, rel) {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			res.FilesScanned++

			for _, mention := range m.Find(string(data)) {
				res.RefsFound++
				at := fmt.Sprintf("%s:%d", filepath.ToSlash(path), mention.Line)
				st, known := ix.Resolve(mention.ID)
				switch {
				case !known:
					res.Report.Addf(diag.CodeStaleSourceMention, at,
						"mention of unknown artifact %s", mention.ID)
				case st.Outdated:
					res.Report.Addf(diag.CodeOutdatedReference, at,
						"mention of %s artifact %s", st.Reason, mention.ID)
				}
			}
			return nil
		})
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}
	return res, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
