package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"agent-directory/internal/ingest"
)

// runImport 按扩展名选择 CSV 或批量 JSON 导入。
func runImport(ctx context.Context, cfg AppConfig, logger *logrus.Logger, path string, build depsBuilder) (ingest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var records []map[string]any
	switch ext {
	case ".csv":
	case ".json":
		if err := json.Unmarshal(data, &records); err != nil {
			return ingest.Result{}, fmt.Errorf("parse %s: expected a JSON array of records: %w", path, err)
		}
	default:
		return ingest.Result{}, fmt.Errorf("unsupported file type %q (want .csv or .json)", ext)
	}

	deps, cleanup, err := build(cfg, logger)
	if err != nil {
		return ingest.Result{}, err
	}
	defer cleanup()

	if ext == ".csv" {
		return deps.importer.CSV(ctx, string(data))
	}
	return deps.importer.Bulk(ctx, records), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
