package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tenderlist/internal/admin"
	"github.com/mesh-intelligence/tenderlist/internal/checklist"
	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// GET /api/v1/lists
func (s *Server) getListNames(c *gin.Context) {
	names, err := s.app.ListNames()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": names})
}

// GET /api/v1/lists/:name/options
func (s *Server) getOptions(c *gin.Context) {
	opts, err := s.app.Options(c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": c.Param("name"), "options": opts})
}

// GET /api/v1/parameters/:name/guide
func (s *Server) getGuide(c *gin.Context) {
	g, err := s.app.Guide(c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// POST /api/v1/checklist
func (s *Server) postChecklist(c *gin.Context) {
	var in checklist.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sheet, err := s.app.Checklist(in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// GET /api/v1/tables/:table
func (s *Server) getTable(c *gin.Context) {
	rows, err := s.app.Table(c.Param("table"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin.ViewRows(rows))
}

// GET /api/v1/admin/backups
func (s *Server) getBackups(c *gin.Context) {
	snaps, err := s.app.Backups.List()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if snaps == nil {
		c.JSON(http.StatusOK, gin.H{"backups": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": snaps})
}

// POST /api/v1/admin/sessions
func (s *Server) openSession(c *gin.Context) {
	sess := s.sessions.Open(s.app.Store.Snapshot())
	s.log.Info("edit session opened", zap.String("session", sess.ID))
	c.JSON(http.StatusCreated, sess.View())
}

// GET /api/v1/admin/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

// DELETE /api/v1/admin/sessions/:id
func (s *Server) discardSession(c *gin.Context) {
	if _, err := s.sessions.Get(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	s.sessions.Discard(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// POST /api/v1/admin/sessions/:id/save
func (s *Server) saveSession(c *gin.Context) {
	report, err := s.sessions.Commit(c.Request.Context(), s.app.Editor, c.Param("id"))
	if report == nil {
		abortWithError(c, err)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// sessionTable resolves the :id and :table parameters.
func (s *Server) sessionTable(c *gin.Context) (*admin.Session, types.TableID, bool) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return nil, "", false
	}
	table, err := types.ParseTableID(c.Param("table"))
	if err != nil {
		abortWithError(c, err)
		return nil, "", false
	}
	return sess, table, true
}

type rowRequest struct {
	Fields admin.Fields `json:"fields" binding:"required"`
}

// POST /api/v1/admin/sessions/:id/:table/rows
func (s *Server) appendRow(c *gin.Context) {
	sess, table, ok := s.sessionTable(c)
	if !ok {
		return
	}
	var req rowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := sess.AppendRow(table, req.Fields)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /api/v1/admin/sessions/:id/:table/rows/:row
func (s *Server) updateRow(c *gin.Context) {
	sess, table, ok := s.sessionTable(c)
	if !ok {
		return
	}
	var req rowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess.UpdateRow(table, c.Param("row"), req.Fields); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("row")})
}

// DELETE /api/v1/admin/sessions/:id/:table/rows/:row
func (s *Server) deleteRow(c *gin.Context) {
	sess, table, ok := s.sessionTable(c)
	if !ok {
		return
	}
	if err := sess.DeleteRow(table, c.Param("row")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type deleteLabelsRequest struct {
	Labels []string `json:"labels"`
}

// POST /api/v1/admin/sessions/:id/:table/delete
func (s *Server) deleteLabels(c *gin.Context) {
	sess, table, ok := s.sessionTable(c)
	if !ok {
		return
	}
	var req deleteLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := sess.DeleteLabels(table, req.Labels)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
