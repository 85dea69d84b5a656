// SPDX-License-Identifier: MPL-2.0

package writer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PruneBackups keeps the newest keep backups per artifact name and removes
// the rest. A keep of zero or less disables pruning. Pruning is advisory;
// the first removal error is returned but earlier removals stand.
func (w *Writer) PruneBackups(keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(w.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Group by artifact base name; the timestamp suffix sorts
	// lexicographically in creation order.
	groups := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		dot := strings.LastIndex(name, ".")
		if dot <= 0 {
			continue
		}
		base := name[:dot]
		groups[base] = append(groups[base], name)
	}

	for _, names := range groups {
		if len(names) <= keep {
			continue
		}
		sort.Strings(names)
		for _, name := range names[:len(names)-keep] {
			if err := os.Remove(filepath.Join(w.backupDir, name)); err != nil {
				return err
			}
			w.logger.Debug("pruned backup", "name", name)
		}
	}
	return nil
}
