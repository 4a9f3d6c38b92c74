package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per submission attempt. Filenames combine the
// authority-asserted time with the signature id, so re-signing identical
// content at a different instant still lands in a distinct file and
// concurrent writers never collide.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create submissions dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func recordFileName(rec Record) string {
	ts := rec.Time.UTC().Format("20060102T150405Z")
	return ts + "_" + rec.Signature + ".json"
}

func (s *FileStore) Put(rec Record) error {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.Dir, recordFileName(rec))
	// O_EXCL keeps the store write-once: the same signed attempt is never
	// overwritten.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("store record: %w", err)
	}
	// A record is proof material; it must survive a crash right after Put.
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("store record: %w", err)
	}
	return f.Close()
}

func (s *FileStore) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.Dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			// A foreign or truncated file must not take the listing down.
			continue
		}
		if rec.Signature == "" {
			// Parsable JSON that is not one of our records.
			continue
		}
		summaries = append(summaries, Summary{
			Time:           rec.Time,
			SubmissionName: rec.SubmissionName,
			Signature:      rec.Signature,
		})
	}
	sortSummaries(summaries)
	return summaries, nil
}
