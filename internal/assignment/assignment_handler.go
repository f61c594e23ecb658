package assignment

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leaveflow/internal/shared/apperror"
	"leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("assignment.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("assignment request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Save(c *gin.Context) {
	actorID := getActorID(c)

	var req SaveAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http save assignments validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Save(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	employeeID := c.Param("employeeId")
	year, _ := strconv.Atoi(c.DefaultQuery("fiscal_year", "0"))

	resp, err := h.service.GetAllByEmployee(c.Request.Context(), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Import(c *gin.Context) {
	actorID := getActorID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not open uploaded file", nil)
		return
	}
	defer file.Close()

	resp, err := h.service.ImportXLSX(c.Request.Context(), actorID, file)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Export streams the employee's grants as an xlsx download.
func (h *Handler) Export(c *gin.Context) {
	employeeID := c.Param("employeeId")
	year, _ := strconv.Atoi(c.DefaultQuery("fiscal_year", "0"))

	assignments, err := h.service.GetAllByEmployee(c.Request.Context(), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Employee ID", "Leave Type ID", "Fiscal Year", "Days"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for i, a := range assignments {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a.EmployeeID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a.LeaveTypeID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), a.FiscalYearNumber)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.Days)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"assignments_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("export assignments write failed", zap.Error(err))
	}
}
