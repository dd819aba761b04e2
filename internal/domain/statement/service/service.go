// Package service orchestrates the statement ingestion pipeline: binary
// validation, text extraction, parser resolution and parsing. It owns the
// logging and instrumentation around the core; the parsing itself lives in
// the parser package.
package service

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gastosgo/statement-engine/internal/domain/statement/extractor"
	"github.com/gastosgo/statement-engine/internal/domain/statement/parser"
	"github.com/gastosgo/statement-engine/pkg/metrics"
)

// ParseInput is one uploaded statement file. The upload layer has already
// enforced size ceilings and sanitized the file name.
type ParseInput struct {
	Data     []byte
	FileName string
	// BankHint selects a parser directly; empty means auto-detect.
	BankHint string
}

// ParseOutput is the result of one successful parse, with diagnostics.
type ParseOutput struct {
	JobID     uuid.UUID
	Statement *parser.ParsedStatement
	BankCode  string
	// Detected is true when the bank was resolved by probing markers
	// rather than an explicit hint.
	Detected  bool
	PageCount int
	Duration  time.Duration
}

// BatchResult pairs one batch entry with its outcome, in input order.
type BatchResult struct {
	Index    int
	FileName string
	Output   *ParseOutput
	Err      error
}

// ImportService runs the ingestion pipeline. It is stateless apart from the
// registry, which is built once here and read-only afterwards, so a single
// instance serves concurrent parse requests without locking.
type ImportService struct {
	extractor    *extractor.Service
	registry     *parser.Registry
	logger       *slog.Logger
	batchWorkers int
}

// NewImportService wires the extractor, the parser registry and
// instrumentation.
func NewImportService(logger *slog.Logger) *ImportService {
	metrics.Init()
	ex := extractor.New()
	return &ImportService{
		extractor: ex,
		registry:  parser.NewRegistry(ex),
		logger:    logger,
	}
}

// WithBatchWorkers caps the ParseBatch worker pool. Zero restores the
// GOMAXPROCS default.
func (s *ImportService) WithBatchWorkers(n int) *ImportService {
	s.batchWorkers = n
	return s
}

// SupportedBanks exposes the registered bank codes for presentation.
func (s *ImportService) SupportedBanks() []string {
	return s.registry.SupportedBanks()
}

// ParseStatement runs the full pipeline for one file: signature check,
// text extraction, parser resolution (hint or detection) and parsing.
// Every failure it returns is a *parser.ParseError.
func (s *ImportService) ParseStatement(ctx context.Context, input ParseInput) (*ParseOutput, error) {
	start := time.Now()
	jobID := uuid.New()

	log := s.logger.With("jobID", jobID, "file", input.FileName)

	if !extractor.IsPDF(input.Data) {
		metrics.ObserveParse(input.BankHint, metrics.ResultInvalidInput, time.Since(start))
		return nil, parser.NewParseError(input.BankHint, input.FileName,
			"o arquivo enviado não é um PDF válido", extractor.ErrNotPDF)
	}

	text, err := s.extractor.ExtractText(input.Data)
	if err != nil {
		metrics.ObserveParse(input.BankHint, metrics.ResultExtractionError, time.Since(start))
		return nil, parser.NewParseError(input.BankHint, input.FileName,
			"não foi possível ler o arquivo PDF", err)
	}

	p, detected, err := s.resolveParser(text, input.BankHint)
	if err != nil {
		metrics.ObserveParse(input.BankHint, resultForError(err), time.Since(start))
		return nil, parser.NewParseError(input.BankHint, input.FileName, err.Error(), err)
	}
	log = log.With("bank", p.BankCode())

	statement, err := p.Parse(ctx, input.Data, input.FileName)
	if err != nil {
		metrics.ObserveParse(p.BankCode(), metrics.ResultParseError, time.Since(start))
		log.Warn("statement parse failed", "error", err)
		return nil, err
	}

	if statement.DueDate < statement.StatementDate {
		// ISO dates compare lexicographically. Not a hard failure, but
		// worth surfacing: valid statements are due after emission.
		log.Warn("due date precedes statement date",
			"statementDate", statement.StatementDate, "dueDate", statement.DueDate)
	}

	output := &ParseOutput{
		JobID:     jobID,
		Statement: statement,
		BankCode:  p.BankCode(),
		Detected:  detected,
		Duration:  time.Since(start),
	}

	// Diagnostics only; metadata failures never abort an import.
	if meta, err := s.extractor.ExtractMetadata(input.Data); err != nil {
		log.Warn("could not extract document metadata", "error", err)
	} else {
		output.PageCount = meta.PageCount
	}

	metrics.ObserveParse(p.BankCode(), metrics.ResultSuccess, output.Duration)
	metrics.ObserveLineItems(len(statement.LineItems))
	log.Info("statement parsed",
		"detected", detected,
		"lineItems", len(statement.LineItems),
		"total", statement.TotalAmount,
		"duration", output.Duration)

	return output, nil
}

// ParseBatch parses independent files concurrently on a bounded worker pool
// and returns results in input order. One failing file never affects the
// others.
func (s *ImportService) ParseBatch(ctx context.Context, inputs []ParseInput) []BatchResult {
	results := make([]BatchResult, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	workerCount := s.batchWorkers
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	if workerCount > len(inputs) {
		workerCount = len(inputs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				output, err := s.ParseStatement(ctx, inputs[idx])
				results[idx] = BatchResult{
					Index:    idx,
					FileName: inputs[idx].FileName,
					Output:   output,
					Err:      err,
				}
			}
		}()
	}

	for idx := range inputs {
		if ctx.Err() != nil {
			results[idx] = BatchResult{
				Index:    idx,
				FileName: inputs[idx].FileName,
				Err: parser.NewParseError(inputs[idx].BankHint, inputs[idx].FileName,
					"importação cancelada", ctx.Err()),
			}
			continue
		}
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}

// resolveParser picks a parser by explicit hint, falling back to marker
// detection over the extracted text.
func (s *ImportService) resolveParser(text, bankHint string) (parser.StatementParser, bool, error) {
	if bankHint != "" {
		p, err := s.registry.Get(bankHint)
		return p, false, err
	}
	p, err := s.registry.Detect(text)
	return p, true, err
}

func resultForError(err error) string {
	switch {
	case errors.Is(err, parser.ErrUnknownBank):
		return metrics.ResultUnknownBank
	case errors.Is(err, parser.ErrBankNotDetected):
		return metrics.ResultNotDetected
	default:
		return metrics.ResultParseError
	}
}
