package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/models"
)

// ExportSource is the part of the store the exporter reads and marks.
type ExportSource interface {
	ListUnexported(ctx context.Context, limit int) ([]models.Interview, error)
	MarkExported(ctx context.Context, ids []string) error
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool   // Whether to run exports
	BatchSize     int    // 0 exports everything pending
}

// ReportExporterJob writes reports of completed interviews to JSONL files.
type ReportExporterJob struct {
	source ExportSource
	config *ExporterConfig
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

func NewReportExporterJob(source ExportSource, config *ExporterConfig, logger *zap.Logger) *ReportExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportExporterJob{
		source: source,
		config: config,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Start begins the scheduled export job
func (j *ReportExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("Report export is disabled, skipping scheduler")
		return nil
	}

	j.logger.Info("Starting report exporter", zap.String("schedule", j.config.Schedule))

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(context.Background()); err != nil {
			j.logger.Error("Report export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running export to finish.
func (j *ReportExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Report exporter stopped")
	}
}

// RunExport performs a single export run and returns the written file path,
// or "" when nothing was pending.
func (j *ReportExporterJob) RunExport(ctx context.Context) (string, error) {
	interviews, err := j.source.ListUnexported(ctx, j.config.BatchSize)
	if err != nil {
		return "", fmt.Errorf("failed to get unexported interviews: %w", err)
	}

	if len(interviews) == 0 {
		j.logger.Info("No unexported interviews found")
		return "", nil
	}

	data, err := ExportToJSONL(interviews)
	if err != nil {
		return "", fmt.Errorf("failed to export to JSONL: %w", err)
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := fmt.Sprintf("interview_reports_%s.jsonl", j.now().Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	ids := make([]string, len(interviews))
	for i, iv := range interviews {
		ids[i] = iv.ID
	}
	if err := j.source.MarkExported(ctx, ids); err != nil {
		return "", fmt.Errorf("failed to mark as exported: %w", err)
	}

	j.logger.Info("Exported interview reports",
		zap.Int("count", len(interviews)),
		zap.String("file", path))

	return path, nil
}

// RunManual runs an export on demand
func (j *ReportExporterJob) RunManual(ctx context.Context) (string, error) {
	return j.RunExport(ctx)
}

// ExportToJSONL renders one report per line.
func ExportToJSONL(interviews []models.Interview) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range interviews {
		if err := enc.Encode(interview.BuildReport(&interviews[i])); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
