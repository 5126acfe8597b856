package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/debateflow/debateflow/debate"
)

const timestampLayout = "20060102_150405"

// ResultStore persists one JSON file per completed debate and derives the
// resume state of a batch from the filenames already present. It implements
// debate.ResultStore.
type ResultStore struct {
	dir    string
	logger *zap.Logger
}

// NewResultStore creates the store, ensuring the directory exists.
func NewResultStore(dir string, logger *zap.Logger) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultStore{
		dir:    dir,
		logger: logger.With(zap.String("component", "result_store")),
	}, nil
}

// Save writes one result as problem_<id>_<timestamp>.json and returns the
// path.
func (s *ResultStore) Save(result *debate.JudgmentResult) (string, error) {
	name := fmt.Sprintf("problem_%d_%s.json", result.Problem.ID, time.Now().Format(timestampLayout))
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result for problem %d: %w", result.Problem.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// SaveSummary writes the batch's aggregate collection as
// summary_<timestamp>.json.
func (s *ResultStore) SaveSummary(results []*debate.JudgmentResult) (string, error) {
	name := fmt.Sprintf("summary_%s.json", time.Now().Format(timestampLayout))
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// CompletedIDs reports the problem IDs already persisted, parsed from
// result filenames. Summary files and unparseable names are ignored.
func (s *ResultStore) CompletedIDs() (map[int]struct{}, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read results dir %s: %w", s.dir, err)
	}

	ids := make(map[int]struct{})
	for _, entry := range entries {
		if id, ok := parseResultName(entry.Name()); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// LoadAll reads every persisted result, sorted by problem ID. Files that
// fail to parse are logged and skipped rather than failing the load.
func (s *ResultStore) LoadAll() ([]*debate.JudgmentResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read results dir %s: %w", s.dir, err)
	}

	var results []*debate.JudgmentResult
	for _, entry := range entries {
		if _, ok := parseResultName(entry.Name()); !ok {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("could not read result file", zap.String("path", path), zap.Error(err))
			continue
		}
		var result debate.JudgmentResult
		if err := json.Unmarshal(data, &result); err != nil {
			s.logger.Warn("could not parse result file", zap.String("path", path), zap.Error(err))
			continue
		}
		results = append(results, &result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Problem.ID < results[j].Problem.ID
	})
	return results, nil
}

// parseResultName extracts the problem ID from a per-problem result
// filename (problem_<id>_<timestamp>.json).
func parseResultName(name string) (int, bool) {
	if !strings.HasPrefix(name, "problem_") || !strings.HasSuffix(name, ".json") {
		return 0, false
	}
	parts := strings.Split(strings.TrimSuffix(name, ".json"), "_")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
