package service

import (
	"bytes"
	"context"
	"errors"
	"evaluation_backend/internal/analytics"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/logger"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	sheetResponses = "Respuestas"
	sheetSummary   = "Resumen"
	reportDir      = "reports"
)

type ReportService struct {
	EvaluationService *EvaluationService
	AnswerService     *AnswerService
	StorageService    *StorageService
}

func NewReportService(evaluationService *EvaluationService, answerService *AnswerService, storageService *StorageService) *ReportService {
	return &ReportService{
		EvaluationService: evaluationService,
		AnswerService:     answerService,
		StorageService:    storageService,
	}
}

type ReportResult struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	Responses int    `json:"responses"`
}

// Export 生成评估回答的 Excel 报表并上传
func (s *ReportService) Export(ctx context.Context, evaluationID int64) (*ReportResult, error) {
	evaluation, err := s.EvaluationService.Get(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	records, err := s.AnswerService.List(ctx)
	if err != nil {
		return nil, err
	}
	records = analytics.FilterByEvaluation(records, evaluation.Title)

	buf, err := buildWorkbook(*evaluation, records)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	filename := path.Join(reportDir, uuid.New().String()+".xlsx")
	url, err := s.StorageService.Upload(ctx, filename, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimeXLSX)
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	logger.Log.Info("Evaluation report exported",
		zap.Int64("evaluation_id", evaluationID),
		zap.String("file", filename),
		zap.Int("responses", len(records)),
	)
	return &ReportResult{URL: url, Filename: filename, Responses: len(records)}, nil
}

// Remove 删除已导出的报表，name 为 Export 返回的文件名（可带 reports/ 前缀）。
// MinIO 删除不存在的对象不会报错，只有本地存储能区分 ErrReportNotFound
func (s *ReportService) Remove(ctx context.Context, name string) error {
	base := strings.TrimPrefix(name, reportDir+"/")
	id, ok := strings.CutSuffix(base, ".xlsx")
	if !ok {
		return util.NewValidationError("name", "must be an exported .xlsx report")
	}
	if _, err := uuid.Parse(id); err != nil {
		return util.NewValidationError("name", "must be an exported .xlsx report")
	}

	filename := path.Join(reportDir, base)
	if err := s.StorageService.Delete(ctx, filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return util.ErrReportNotFound
		}
		return fmt.Errorf("delete report: %w", err)
	}

	logger.Log.Info("Evaluation report removed", zap.String("file", filename))
	return nil
}

func buildWorkbook(evaluation model.Evaluation, records []model.AnswerRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetResponses); err != nil {
		return nil, err
	}

	header := []interface{}{"Autor"}
	for _, q := range evaluation.Questions {
		header = append(header, q.Label)
	}
	if err := f.SetSheetRow(sheetResponses, "A1", &header); err != nil {
		return nil, err
	}

	for i, rec := range records {
		row := []interface{}{rec.Author}
		for _, q := range evaluation.Questions {
			row = append(row, cellValue(rec.Answers[q.Label]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetResponses, cell, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	if err := writeSummary(f, analytics.SummarizeEvaluation(evaluation, records)); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func cellValue(v model.AnswerValue) interface{} {
	if n, ok := v.Number(); ok {
		return n
	}
	return v.String()
}

// writeSummary 每个问题一行：评分题列出各作者平均分，其余题列出是/否数量
func writeSummary(f *excelize.File, summary analytics.EvaluationSummary) error {
	header := []interface{}{"Pregunta", "Tipo", "Respuestas", "Si", "No", "Promedios"}
	if err := f.SetSheetRow(sheetSummary, "A1", &header); err != nil {
		return err
	}

	for i, q := range summary.Questions {
		row := []interface{}{q.Label, string(q.Type), q.Answered, "", "", ""}
		if q.Tally != nil {
			row[3], row[4] = q.Tally.Yes, q.Tally.No
		}
		if len(q.Averages) > 0 {
			row[5] = formatAverages(q.Averages)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatAverages(averages []analytics.AuthorAverage) string {
	var buf bytes.Buffer
	for i, a := range averages {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(a.Author)
		buf.WriteString(": ")
		buf.WriteString(strconv.FormatFloat(a.Average, 'f', 2, 64))
	}
	return buf.String()
}
