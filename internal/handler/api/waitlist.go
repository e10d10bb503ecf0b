package api

import (
	"net/http"

	"booking-engine/internal/domain/waitlist"
	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	cmds commands.WaitlistCommands
	q    queries.WaitlistQueries
}

func NewWaitlistHandler(cmds commands.WaitlistCommands, q queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{cmds: cmds, q: q}
}

// @Summary Join waitlist
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateWaitlistEntryRequest true "Waitlist entry"
// @Success 201 {object} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req reqdto.CreateWaitlistEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid window", nil)
		return
	}
	entry, err := h.cmds.CreateEntry(c.Request.Context(), actor, input)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.Header("Location", "/api/waitlist/"+entry.ID().String())
	c.JSON(http.StatusCreated, resdto.FromWaitlistEntry(entry))
}

// @Summary Get waitlist entry
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist/{id} [get]
func (h *WaitlistHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.q.GetEntry(c.Request.Context(), actor, id)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitlistEntry(entry))
}

// @Summary List waitlist
// @Description Entries of a branch in queue order, optionally filtered by status
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param branch_id query string true "Branch ID"
// @Param status query string false "active, matched or cancelled"
// @Param limit query int false "Page size"
// @Success 200 {array} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var q reqdto.ListWaitlistQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	branchID, err := uuid.Parse(q.BranchID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid branch_id", nil)
		return
	}
	var status *waitlist.Status
	if q.Status != "" {
		s, statusErr := waitlist.NewStatus(q.Status)
		if statusErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, statusErr, "Invalid status", nil)
			return
		}
		status = &s
	}
	entries, err := h.q.ListEntries(c.Request.Context(), actor, branchID, status, q.Limit)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitlistEntries(entries))
}

// @Summary Leave waitlist
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /waitlist/{id}/cancel [post]
func (h *WaitlistHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.cmds.CancelEntry(c.Request.Context(), actor, id)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitlistEntry(entry))
}
