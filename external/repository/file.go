package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/foxseedlab/koebako/internal/repository"
)

const corruptSuffix = ".corrupt"

type FileBackend struct {
	historyPath string
	totalsPath  string

	mu     sync.Mutex
	lines  []string
	totals map[string]int64
}

func NewFileBackend(historyPath, totalsPath string) *FileBackend {
	return &FileBackend{
		historyPath: historyPath,
		totalsPath:  totalsPath,
		totals:      make(map[string]int64),
	}
}

func (b *FileBackend) Load(_ context.Context) (repository.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = nil
	b.totals = make(map[string]int64)
	var errs []error

	var lines []string
	if err := readJSONFile(b.historyPath, &lines); err != nil {
		errs = append(errs, err)
		lines = nil
	}
	var totals map[string]int64
	if err := readJSONFile(b.totalsPath, &totals); err != nil {
		errs = append(errs, err)
		totals = nil
	}

	b.lines = lines
	maps.Copy(b.totals, totals)

	snap := repository.Snapshot{
		History: make([]repository.HistoryEntry, 0, len(lines)),
		Totals:  make(map[repository.MemberID]int64, len(totals)),
	}
	for _, line := range lines {
		snap.History = append(snap.History, repository.HistoryEntry{Line: line})
	}
	for id, total := range totals {
		snap.Totals[repository.MemberID(id)] = total
	}
	return snap, errors.Join(errs...)
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		backup := path + corruptSuffix
		if renameErr := os.Rename(path, backup); renameErr != nil {
			slog.Error("failed to move malformed file aside", "error", renameErr, "path", path)
		} else {
			slog.Warn("moved malformed file aside", "path", path, "backup", backup)
		}
		return fmt.Errorf("decode %s: %w: %v", path, repository.ErrMalformedData, err)
	}
	return nil
}

// Totals are renamed before history.
func (b *FileBackend) Persist(ctx context.Context, c repository.Commit) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := append([]string(nil), b.lines...)
	for _, e := range c.Entries {
		lines = append(lines, e.Line)
	}
	totals := maps.Clone(b.totals)
	for id, total := range c.Totals {
		totals[string(id)] = total
	}
	if lines == nil {
		lines = []string{}
	}

	historyTmp, err := writeTempJSON(b.historyPath, lines)
	if err != nil {
		return err
	}
	totalsTmp, err := writeTempJSON(b.totalsPath, totals)
	if err != nil {
		_ = os.Remove(historyTmp)
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(historyTmp)
		_ = os.Remove(totalsTmp)
		return fmt.Errorf("persist voice commit: %w", err)
	}
	if err := os.Rename(totalsTmp, b.totalsPath); err != nil {
		_ = os.Remove(historyTmp)
		_ = os.Remove(totalsTmp)
		return fmt.Errorf("replace %s: %w", b.totalsPath, err)
	}
	b.totals = totals
	if err := os.Rename(historyTmp, b.historyPath); err != nil {
		_ = os.Remove(historyTmp)
		return fmt.Errorf("replace %s: %w", b.historyPath, err)
	}
	b.lines = lines
	return nil
}

func writeTempJSON(path string, v any) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", f.Name(), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("sync %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}

func (b *FileBackend) Close() error {
	return nil
}
