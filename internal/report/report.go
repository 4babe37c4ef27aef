// Package report ties the projection engine, narrative drafting and the
// output renderers together into one plan build.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/internal/narrative"
	"github.com/iwvelando/plan-autofill/internal/projection"
	"github.com/iwvelando/plan-autofill/pkg/output"
	"go.uber.org/zap"
)

// Options select optional build steps.
type Options struct {
	// Narrative drafts empty narrative sections with the generator.
	Narrative bool
}

// Report is one built plan.
type Report struct {
	Input      config.Input
	Narratives config.Narratives
	Projection projection.Projection
	Warnings   []string
	Duration   time.Duration
}

// Service builds reports.
type Service struct {
	logger    *zap.Logger
	engine    *projection.Engine
	generator narrative.Generator
}

// NewService returns a Service. A nil generator disables drafting.
func NewService(logger *zap.Logger, engine *projection.Engine, generator narrative.Generator) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = narrative.Unavailable{}
	}
	return &Service{logger: logger, engine: engine, generator: generator}
}

// Build validates the input, runs the projection and, when asked, drafts the
// empty narrative sections. Validation problems are reported as warnings and
// never stop the build.
func (s *Service) Build(ctx context.Context, in config.Input, opts Options) Report {
	start := time.Now()

	warnings := in.ValidateInput()
	for _, warning := range warnings {
		s.logger.Warn("input warning",
			zap.String("op", "report.Build"),
			zap.String("warning", warning),
		)
	}

	narratives := in.Narratives
	if opts.Narrative {
		narratives = narrative.Fill(ctx, s.logger, s.generator, in)
	}

	p := s.engine.Project(in)
	elapsed := time.Since(start)

	s.logger.Info("plan built",
		zap.String("op", "report.Build"),
		zap.Int("salesLines", len(in.Sales)),
		zap.Int("personnelLines", len(in.Personnel)),
		zap.Int("investmentItems", len(in.Investment)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	return Report{
		Input:      in,
		Narratives: narratives,
		Projection: p,
		Warnings:   warnings,
		Duration:   elapsed,
	}
}

// Document returns the printable plan document.
func (r Report) Document() output.Document {
	return output.NewDocument(r.Input, r.Narratives, r.Projection)
}

// Tables returns every projection table in presentation order.
func (r Report) Tables() []projection.Table {
	return r.Projection.Tables.Ordered()
}

// WriteFiles writes the workbook and the plan document into the configured
// output directory and returns their paths.
func (s *Service) WriteFiles(r Report, conf config.OutputConfig) (string, string, error) {
	if err := os.MkdirAll(conf.Directory, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory %s: %w", conf.Directory, err)
	}

	workbookPath := filepath.Join(conf.Directory, conf.WorkbookName)
	if err := writeFile(workbookPath, func(f *os.File) error {
		return output.WriteWorkbook(f, r.Tables())
	}); err != nil {
		return "", "", err
	}

	documentPath := filepath.Join(conf.Directory, conf.DocumentName)
	if err := writeFile(documentPath, func(f *os.File) error {
		return r.Document().Write(f, conf.DocumentFormat)
	}); err != nil {
		return "", "", err
	}

	s.logger.Info("plan files written",
		zap.String("op", "report.WriteFiles"),
		zap.String("workbook", workbookPath),
		zap.String("document", documentPath),
	)
	return workbookPath, documentPath, nil
}

func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
