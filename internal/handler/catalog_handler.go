package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/exam-countdown/internal/catalog"
	"github.com/stemsi/exam-countdown/internal/response"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

type boardSummary struct {
	Name         string `json:"name"`
	Venue        string `json:"venue"`
	SubjectCount int    `json:"subject_count"`
}

// ListBoards godoc
// GET /api/v1/catalog/boards
func (h *CatalogHandler) ListBoards(c *gin.Context) {
	boards := h.catalog.Boards()
	summaries := make([]boardSummary, 0, len(boards))
	for _, b := range boards {
		summaries = append(summaries, boardSummary{Name: b.Name, Venue: b.Venue, SubjectCount: len(b.Subjects)})
	}
	response.Success(c, http.StatusOK, gin.H{"boards": summaries})
}

// ListSubjects godoc
// GET /api/v1/catalog/boards/:board/subjects
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	board, err := h.catalog.Board(c.Param("board"))
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownBoard) {
			response.Fail(c, http.StatusNotFound, response.ErrUnknownBoard)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	subjects := board.Subjects
	if subjects == nil {
		subjects = []catalog.Subject{}
	}
	response.Success(c, http.StatusOK, gin.H{"board": board.Name, "venue": board.Venue, "subjects": subjects})
}
