package server

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"vorp/rfm-csv/internal/common"
	"vorp/rfm-csv/internal/dateutils"
	"vorp/rfm-csv/internal/insights"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"
	"vorp/rfm-csv/internal/parsererror"
	"vorp/rfm-csv/internal/report"
	"vorp/rfm-csv/internal/rfm"

	"github.com/gin-gonic/gin"
)

type analyzeForm struct {
	CustomerID   string `form:"customer_id"`
	CustomerName string `form:"customer_name"`
	Salesperson  string `form:"salesperson"`
	OrderDate    string `form:"order_date"`
	OrderValue   string `form:"order_value"`
	Delimiter    string `form:"delimiter"`
	Search       string `form:"search"`
	Segment      string `form:"segment"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Insights     bool   `form:"insights"`
	Report       string `form:"report"`
}

func (f analyzeForm) mapping() models.ColumnMapping {
	return models.ColumnMapping{
		CustomerID:   f.CustomerID,
		CustomerName: f.CustomerName,
		Salesperson:  f.Salesperson,
		OrderDate:    f.OrderDate,
		OrderValue:   f.OrderValue,
	}
}

type pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type analyzeResponse struct {
	AnalysisID    string                  `json:"analysis_id"`
	File          string                  `json:"file"`
	Mapping       models.ColumnMapping    `json:"mapping"`
	ReferenceDate string                  `json:"reference_date"`
	Stats         models.Stats            `json:"stats"`
	KPIs          rfm.KPIs                `json:"kpis"`
	Segments      []report.SegmentRow     `json:"segments"`
	Summaries     []models.SegmentSummary `json:"summaries"`
	Matrix        *rfm.Matrix             `json:"matrix"`
	Records       []models.RFMRecord      `json:"records"`
	Pagination    *pagination             `json:"pagination,omitempty"`
	Insights      *insights.Insight       `json:"insights,omitempty"`
}

type insightsRequest struct {
	Summaries []models.SegmentSummary `json:"summaries"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ai_enabled": s.insights.Enabled(),
	})
}

func (s *Server) handleSegments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"segments": s.catalog.All()})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	var form analyzeForm
	if err := c.ShouldBind(&form); err != nil {
		s.respondWithBindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.respondWithBindError(c, err)
		return
	}

	delimiter := s.delimiter
	if form.Delimiter != "" {
		if utf8.RuneCountInString(form.Delimiter) != 1 {
			respondWithError(c, http.StatusBadRequest, ErrorCodeBadRequest, "delimiter must be a single character", gin.H{"delimiter": form.Delimiter})
			return
		}
		delimiter, _ = utf8.DecodeRuneInString(form.Delimiter)
	}
	if form.Report != "" && form.Report != report.FormatJSON && form.Report != report.FormatMarkdown {
		respondWithError(c, http.StatusBadRequest, ErrorCodeBadRequest, "unsupported report format", gin.H{"report": form.Report})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, http.StatusBadRequest, ErrorCodeInvalidFile, "could not open uploaded file", nil)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close uploaded file")
		}
	}()

	table, err := common.ReadRawRows(file, fileHeader.Filename, delimiter, s.logger)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, ErrorCodeInvalidFile, err.Error(), nil)
		return
	}

	mapping, err := common.ResolveMapping(table.Headers, form.mapping())
	if err != nil {
		s.respondWithValidationError(c, err, gin.H{"headers": table.Headers, "detected": mapping})
		return
	}

	result, err := s.engine.Analyze(c.Request.Context(), table.Rows, mapping)
	if err != nil {
		var verr *parsererror.ValidationError
		if errors.As(err, &verr) {
			s.respondWithValidationError(c, err, nil)
			return
		}
		s.logger.WithError(err).WithField(logging.FieldFile, fileHeader.Filename).Error("Analysis failed")
		respondWithError(c, http.StatusInternalServerError, ErrorCodeInternalServer, "analysis failed", nil)
		return
	}

	var insight *insights.Insight
	if form.Insights {
		generated := s.insights.Generate(c.Request.Context(), result.Summaries)
		insight = &generated
	}
	rep := s.reports.Build(result, fileHeader.Filename, insight)

	s.logger.WithFields(
		logging.Field{Key: logging.FieldAnalysisID, Value: rep.ID},
		logging.Field{Key: logging.FieldFile, Value: fileHeader.Filename},
		logging.Field{Key: logging.FieldCustomers, Value: len(result.Records)},
	).Info("Analysis request completed")

	if form.Report != "" {
		data, err := s.reports.Generate(rep, form.Report)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, ErrorCodeInternalServer, "report generation failed", nil)
			return
		}
		contentType := "application/json; charset=utf-8"
		if form.Report == report.FormatMarkdown {
			contentType = "text/markdown; charset=utf-8"
		}
		c.Data(http.StatusOK, contentType, data)
		return
	}

	records := rfm.Filter(result.Records, rfm.RecordFilter{Search: form.Search, Segment: form.Segment})
	resp := analyzeResponse{
		AnalysisID:    rep.ID,
		File:          fileHeader.Filename,
		Mapping:       mapping,
		ReferenceDate: dateutils.ToISODate(result.ReferenceDate),
		Stats:         result.Stats,
		KPIs:          rep.KPIs,
		Segments:      rep.Segments,
		Summaries:     result.Summaries,
		Matrix:        rep.Matrix,
		Records:       records,
		Insights:      insight,
	}
	if form.Page > 0 {
		page := rfm.Paginate(records, form.Page, form.PageSize)
		resp.Records = page.Records
		resp.Pagination = &pagination{Page: page.Page, PageSize: page.PageSize, Total: page.Total, TotalPages: page.TotalPages}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleInsights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request payload", gin.H{"reason": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.insights.Generate(c.Request.Context(), req.Summaries))
}

func (s *Server) respondWithBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondWithError(c, http.StatusRequestEntityTooLarge, ErrorCodeFileTooLarge, "upload exceeds the size limit", gin.H{"limit_bytes": tooLarge.Limit})
		return
	}
	if errors.Is(err, http.ErrMissingFile) {
		respondWithError(c, http.StatusBadRequest, ErrorCodeBadRequest, "multipart field \"file\" is required", nil)
		return
	}
	respondWithError(c, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request", gin.H{"reason": err.Error()})
}

func (s *Server) respondWithValidationError(c *gin.Context, err error, extra gin.H) {
	details := gin.H{}
	for k, v := range extra {
		details[k] = v
	}
	var verr *parsererror.ValidationError
	if errors.As(err, &verr) {
		details["problems"] = verr.Problems
	}
	respondWithError(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), details)
}
