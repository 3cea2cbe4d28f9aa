package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	InOffice(w http.ResponseWriter, r *http.Request)
	LateToday(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	ExportSummary(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	UpdateRecord(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.CheckIn(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.CheckOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, today)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendanceService.History(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, records)
}

// InOffice implements AttendanceHandler.
func (h *attendanceHandlerImpl) InOffice(w http.ResponseWriter, r *http.Request) {
	inOffice, err := h.attendanceService.InOffice(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, inOffice)
}

// LateToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) LateToday(w http.ResponseWriter, r *http.Request) {
	late, err := h.attendanceService.LateToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, late)
}

func summaryRequest(r *http.Request) (attendance.SummaryRequest, error) {
	month, err := queryInt(r, "month")
	if err != nil {
		return attendance.SummaryRequest{}, err
	}
	year, err := queryInt(r, "year")
	if err != nil {
		return attendance.SummaryRequest{}, err
	}
	return attendance.SummaryRequest{Month: valueOr(month, 0), Year: valueOr(year, 0)}, nil
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req, err := summaryRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, summary)
}

// ExportSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportSummary(w http.ResponseWriter, r *http.Request) {
	req, err := summaryRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.attendanceService.ExportSummary(r.Context(), attendance.ExportSummaryRequest{
		SummaryRequest: req,
		Format:         r.URL.Query().Get("format"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance summary exported", "file", file.Filename, "bytes", len(file.Content))
	response.File(w, file.Filename, file.ContentType, file.Content)
}

// ListRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	var filter attendance.RecordFilter
	var err error

	filter.UserID = queryString(r, "user")
	if filter.Month, err = queryInt(r, "month"); err != nil {
		response.HandleError(w, err)
		return
	}
	if filter.Year, err = queryInt(r, "year"); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, records)
}

// UpdateRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRecordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRecord decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.attendanceService.UpdateRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated", record)
}
