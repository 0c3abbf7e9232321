package handlers

import (
	"errors"
	"net/http"
	"strconv"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/dto"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type BoardHandler struct {
	svc *service.BoardService
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// Board godoc
// @Summary      Full board snapshot
// @Tags         board
// @Produce      json
// @Success      200  {object}  dto.BoardResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /board [get]
func (h *BoardHandler) Board(c *gin.Context) {
	b, err := h.svc.Board(c.Request.Context())
	if err != nil {
		h.fail(c, "board", 0, err)
		return
	}
	c.JSON(http.StatusOK, boardToResponse(b))
}

// CreateColumn godoc
// @Summary      Create a column
// @Tags         columns
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateColumnRequest  true  "Column"
// @Success      200   {object}  dto.ColumnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /columns [post]
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	var req dto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	col, err := h.svc.CreateColumn(c.Request.Context(), req.Title)
	if err != nil {
		h.fail(c, "create column", 0, err)
		return
	}
	c.JSON(http.StatusOK, columnToResponse(col))
}

// DeleteColumn godoc
// @Summary      Delete a column
// @Description  Removes the column row only unless cascade=true; without cascade its tasks are left behind.
// @Tags         columns
// @Produce      json
// @Param        id       path   int   true   "Column ID"
// @Param        cascade  query  bool  false  "Also delete the column's tasks, atomically"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /columns/{id} [delete]
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cascade, _ := strconv.ParseBool(c.Query("cascade"))
	var err error
	if cascade {
		err = h.svc.DeleteColumnCascade(c.Request.Context(), id)
	} else {
		err = h.svc.DeleteColumn(c.Request.Context(), id)
	}
	if err != nil {
		h.fail(c, "delete column", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// DeleteColumnTasks godoc
// @Summary      Delete every task of a column
// @Tags         columns
// @Produce      json
// @Param        id   path      int  true  "Column ID"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /columns/{id}/tasks [delete]
func (h *BoardHandler) DeleteColumnTasks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.DeleteColumnTasks(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "delete column tasks", id, err)
		return
	}
	log.WithFields(log.Fields{"column": id, "deleted": n}).Debug("column tasks deleted")
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// CreateTask godoc
// @Summary      Create a task at the end of a column
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks [post]
func (h *BoardHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	t, err := h.svc.CreateTask(c.Request.Context(), req.Title, req.Status.Int64())
	if err != nil {
		h.fail(c, "create task", 0, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// MoveTask godoc
// @Summary      Set a task's column and position
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MoveTaskRequest  true  "Move"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks/move [post]
func (h *BoardHandler) MoveTask(c *gin.Context) {
	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	id := req.ID.Int64()
	if err := h.svc.MoveTask(c.Request.Context(), id, req.Status.Int64(), *req.Position); err != nil {
		h.fail(c, "move task", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// RenameTask godoc
// @Summary      Rename a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RenameTaskRequest  true  "Rename"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks/rename [post]
func (h *BoardHandler) RenameTask(c *gin.Context) {
	var req dto.RenameTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	id := req.ID.Int64()
	if err := h.svc.RenameTask(c.Request.Context(), id, req.Title); err != nil {
		h.fail(c, "rename task", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// SetTaskDescription godoc
// @Summary      Set a task's description
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SetDescriptionRequest  true  "Description"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks/description [post]
func (h *BoardHandler) SetTaskDescription(c *gin.Context) {
	var req dto.SetDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	id := req.ID.Int64()
	if err := h.svc.SetTaskDescription(c.Request.Context(), id, req.Description); err != nil {
		h.fail(c, "set description", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// ReorderTasks godoc
// @Summary      Move tasks into a column in the given order
// @Description  Assigns positions 0..n-1 to ids, in order, inside one transaction.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReorderTasksRequest  true  "Ordered ids"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks/reorder [post]
func (h *BoardHandler) ReorderTasks(c *gin.Context) {
	var req dto.ReorderTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ids := make([]int64, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = id.Int64()
	}
	status := req.Status.Int64()
	if err := h.svc.ReorderTasks(c.Request.Context(), status, ids); err != nil {
		h.fail(c, "reorder tasks", status, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// fail maps service errors to status codes. Store failures are logged and
// returned as 500 with the error message.
func (h *BoardHandler) fail(c *gin.Context, op string, id int64, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrEmptyTitle), errors.Is(err, service.ErrInvalidPosition):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		log.WithFields(log.Fields{"op": op, "id": id}).WithError(err).Error("store failure")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func columnToResponse(col dom.Column) dto.ColumnResponse {
	return dto.ColumnResponse{ID: col.ID, Title: col.Title}
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		Position:    t.Position,
		Description: t.Description,
	}
}

func boardToResponse(b dom.Board) dto.BoardResponse {
	out := dto.BoardResponse{
		Columns: make([]dto.ColumnResponse, len(b.Columns)),
		Tasks:   make([]dto.TaskResponse, len(b.Tasks)),
	}
	for i := range b.Columns {
		out.Columns[i] = columnToResponse(b.Columns[i])
	}
	for i := range b.Tasks {
		out.Tasks[i] = taskToResponse(b.Tasks[i])
	}
	return out
}
