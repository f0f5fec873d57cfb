package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/ingest"
	"github.com/IbrahimShadi/pdf-analyzer/internal/repository"
)

const maxListLimit = 1000

// AnalysisService implements AnalyzerServer. The result store is optional.
type AnalysisService struct {
	analyzer *analyzer.Analyzer
	results  repository.ResultRepository
	logger   *slog.Logger
}

func NewAnalysisService(a *analyzer.Analyzer, results repository.ResultRepository, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{analyzer: a, results: results, logger: logger}
}

func (s *AnalysisService) AnalyzeText(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := strings.TrimSpace(stringField(req, "path"))
	text := stringField(req, "text")

	res := s.analyzer.AnalyzeText(ctx, path, text, nil)
	s.save(ctx, res, "")
	return s.resultStruct(res)
}

func (s *AnalysisService) AnalyzeFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	path := strings.TrimSpace(stringField(req, "path"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("path", path, common.Required)); err != nil {
		s.logger.Error("analyze file request missing path")
		return nil, err
	}

	// hash before analysis, the file may be renamed
	hash, err := ingest.HashFile(path)
	if err != nil {
		s.logger.Error("cannot read file", "path", path, "error", err)
		return nil, common.InvalidArgumentErrorf("cannot read %s: %v", path, err)
	}
	res := s.analyzer.AnalyzeFile(ctx, path)
	s.save(ctx, res, hash)
	return s.resultStruct(res)
}

func (s *AnalysisService) Classify(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cls := s.analyzer.Classify(stringField(req, "text"))
	probs := make(map[string]any, len(cls.Probabilities))
	for k, v := range cls.Probabilities {
		probs[k] = analyzer.Round4(v)
	}
	out, err := structpb.NewStruct(map[string]any{
		"top_class":     cls.TopClass,
		"confidence":    analyzer.Round4(cls.Confidence),
		"probabilities": probs,
	})
	if err != nil {
		return nil, common.InternalErrorf("encode classification: %v", err)
	}
	return out, nil
}

func (s *AnalysisService) GetResult(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.results == nil {
		return nil, common.UnavailableError("result store not configured")
	}
	id := stringField(req, "id")
	if err := common.ValidateAndReturnError(common.NewValidator().Field("id", id, common.UUID)); err != nil {
		return nil, err
	}
	res, err := s.results.GetByID(ctx, uuid.MustParse(id))
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("failed to get result", "id", id, "error", err)
		}
		return nil, common.ToStatus(err)
	}
	return s.resultStruct(res)
}

func (s *AnalysisService) ListResults(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.results == nil {
		return nil, common.UnavailableError("result store not configured")
	}
	limit := numberField(req, "limit")
	if err := common.ValidateAndReturnError(common.NewValidator().Field("limit", limit, common.InRange(0, maxListLimit))); err != nil {
		return nil, err
	}
	list, err := s.results.List(ctx, repository.ListFilter{
		Limit:    int(limit),
		TopClass: stringField(req, "top_class"),
		RunID:    stringField(req, "run_id"),
	})
	if err != nil {
		s.logger.Error("failed to list results", "error", err)
		return nil, common.ToStatus(err)
	}
	s.logger.Info("results listed", "count", len(list))

	out, err := toStruct(map[string]any{"results": list})
	if err != nil {
		return nil, common.InternalErrorf("encode results: %v", err)
	}
	return out, nil
}

func (s *AnalysisService) save(ctx context.Context, res analyzer.Result, hash string) {
	if s.results == nil {
		return
	}
	if err := s.results.Save(ctx, res, hash); err != nil {
		s.logger.Error("failed to store result", "id", res.ID, "error", err)
	}
}

func (s *AnalysisService) resultStruct(res analyzer.Result) (*structpb.Struct, error) {
	out, err := toStruct(res)
	if err != nil {
		s.logger.Error("failed to encode result", "id", res.ID, "error", err)
		return nil, common.InternalErrorf("encode result: %v", err)
	}
	return out, nil
}
