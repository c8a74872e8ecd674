package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/newstrace/newstrace/internal/types"
)

// --- JSON Storage ---

// JSONStorage buffers output and writes two JSON files on Close:
// articles.json and journalists.json under the output directory.
type JSONStorage struct {
	dir      string
	articles []*types.ArticleRecord
	profiles []*types.AuthorProfile
	mu       sync.Mutex
	logger   *slog.Logger
}

// NewJSONStorage creates a new JSON file storage.
func NewJSONStorage(outputDir string, logger *slog.Logger) (*JSONStorage, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "json", Err: err}
	}
	return &JSONStorage{
		dir:    outputDir,
		logger: logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) StoreArticles(records []*types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, records...)
	s.logger.Debug("articles buffered", "count", len(records), "total", len(s.articles))
	return nil
}

func (s *JSONStorage) StoreProfiles(profiles []*types.AuthorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, profiles...)
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(filepath.Join(s.dir, "articles.json"), s.articles); err != nil {
		return &types.StorageError{Backend: "json", Err: err}
	}
	if err := writeJSON(filepath.Join(s.dir, "journalists.json"), s.profiles); err != nil {
		return &types.StorageError{Backend: "json", Err: err}
	}

	s.logger.Info("JSON written",
		"dir", s.dir,
		"articles", len(s.articles),
		"journalists", len(s.profiles))
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// --- CSV Storage ---

// CSVStorage writes articles.csv and journalists.csv under the output
// directory. Headers come from the first record's flat map, sorted.
type CSVStorage struct {
	dir      string
	articles []*types.ArticleRecord
	profiles []*types.AuthorProfile
	mu       sync.Mutex
	logger   *slog.Logger
}

// NewCSVStorage creates a new CSV file storage.
func NewCSVStorage(outputDir string, logger *slog.Logger) (*CSVStorage, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: err}
	}
	return &CSVStorage{
		dir:    outputDir,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) StoreArticles(records []*types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, records...)
	return nil
}

func (s *CSVStorage) StoreProfiles(profiles []*types.AuthorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, profiles...)
	return nil
}

func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	articleRows := make([]map[string]string, len(s.articles))
	for i, rec := range s.articles {
		articleRows[i] = rec.ToFlatMap()
	}
	if err := writeCSV(filepath.Join(s.dir, "articles.csv"), articleRows); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}

	profileRows := make([]map[string]string, len(s.profiles))
	for i, p := range s.profiles {
		profileRows[i] = profileFlatMap(p)
	}
	if err := writeCSV(filepath.Join(s.dir, "journalists.csv"), profileRows); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}

	s.logger.Info("CSV written",
		"dir", s.dir,
		"articles", len(s.articles),
		"journalists", len(s.profiles))
	return nil
}

func writeCSV(path string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(rows) == 0 {
		return w.Error()
	}

	headers := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func profileFlatMap(p *types.AuthorProfile) map[string]string {
	return map[string]string{
		"name":             p.Name,
		"beat":             p.Beat,
		"role":             p.Role,
		"bio":              p.Bio,
		"email":            p.Email,
		"twitter":          p.Twitter,
		"linkedin":         p.LinkedIn,
		"instagram":        p.Instagram,
		"facebook":         p.Facebook,
		"workplace":        p.Workplace,
		"articles_count":   fmt.Sprintf("%d", p.ArticlesCount),
		"recent_articles":  strings.Join(p.RecentArticles, "; "),
		"most_recent_date": p.MostRecentDate,
		"profile_url":      p.ProfileURL,
	}
}
