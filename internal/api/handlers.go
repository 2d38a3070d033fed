package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/repository"
	"github.com/clinical-calculator-mcp-server/internal/service"
	"github.com/clinical-calculator-mcp-server/pkg/formulas"
)

// EvaluateRequest is the body of POST /calculators/:id/evaluate.
type EvaluateRequest struct {
	Inputs    map[string]float64 `json:"inputs" binding:"required"`
	PatientID string             `json:"patient_id"`
	Notes     string             `json:"notes"`
	Record    bool               `json:"record"`
}

// FormulaRequest is the body of POST /formulas/:name.
type FormulaRequest struct {
	Params map[string]float64 `json:"params" binding:"required"`
}

// HistoryPage is the body of GET /history.
type HistoryPage struct {
	Entries []*history.Entry `json:"entries"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(c.Request.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":      state,
		"timestamp":   time.Now().UTC(),
		"version":     Version,
		"calculators": len(s.service.ListCalculators("")),
		"history":     s.service.HistoryEnabled(),
		"checks":      checks,
	})
}

func (s *Server) handleListCalculators(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	if category != "" && !category.IsValid() {
		badRequest(c, "unknown category "+strconv.Quote(string(category)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"calculators": s.service.ListCalculators(category)})
}

func (s *Server) handleGetCalculator(c *gin.Context) {
	calc, err := s.service.Calculator(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (s *Server) handleGetSchema(c *gin.Context) {
	id := c.Param("id")
	fields, err := s.service.Schema(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calculator_id": id, "fields": fields})
}

func (s *Server) handleRelated(c *gin.Context) {
	related, err := s.service.Related(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calculators": related})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := s.service.Evaluate(c.Request.Context(), service.EvaluateRequest{
		CalculatorID: c.Param("id"),
		Inputs:       domain.Inputs(req.Inputs),
		PatientID:    req.PatientID,
		Notes:        req.Notes,
		Record:       req.Record,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.service.Categories()})
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		badRequest(c, "query parameter q is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "calculators": s.service.Search(q)})
}

func (s *Server) handleListHistory(c *gin.Context) {
	limit, err := queryInt(c, "limit", history.DefaultListLimit)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	filter := history.Filter{
		CalculatorID: c.Query("calculator_id"),
		PatientID:    c.Query("patient_id"),
		Limit:        limit,
		Offset:       offset,
	}
	entries, total, err := s.service.History(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	c.JSON(http.StatusOK, HistoryPage{Entries: entries, Total: total, Limit: limit, Offset: offset})
}

func (s *Server) handleGetHistory(c *gin.Context) {
	entry, err := s.service.HistoryEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	if err := s.service.DeleteHistoryEntry(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFormula(c *gin.Context) {
	var req FormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := s.service.ComputeFormula(c.Param("name"), req.Params)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleListFormulas(c *gin.Context) {
	out := make([]formulas.Formula, 0, len(formulas.Names()))
	for _, name := range formulas.Names() {
		if f, ok := formulas.Lookup(name); ok {
			out = append(out, f)
		}
	}
	c.JSON(http.StatusOK, gin.H{"formulas": out})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &queryError{key: key, value: raw}
	}
	return n, nil
}

type queryError struct{ key, value string }

func (e *queryError) Error() string {
	return "invalid " + e.key + " " + strconv.Quote(e.value)
}

func (s *Server) handleUsage(c *gin.Context) {
	stats, err := s.usage.All(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if stats == nil {
		stats = []repository.UsageStats{}
	}
	c.JSON(http.StatusOK, gin.H{"calculators": stats})
}

func (s *Server) handleCalculatorUsage(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.service.Calculator(id); err != nil {
		s.respondError(c, err)
		return
	}
	stats, err := s.usage.ForCalculator(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": stats, "escalation_rate": stats.EscalationRate()})
}
