package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-backend/internal/service"
)

// LibraryHandler serves batch operations, reservations, and the overview.
type LibraryHandler struct {
	librarySvc service.LibraryService
}

func NewLibraryHandler(librarySvc service.LibraryService) *LibraryHandler {
	return &LibraryHandler{librarySvc: librarySvc}
}

func (h *LibraryHandler) Register(r *mux.Router) {
	r.HandleFunc("/batch-borrow", h.BatchBorrow).Methods(http.MethodPost)
	r.HandleFunc("/batch-return", h.BatchReturn).Methods(http.MethodPost)
	r.HandleFunc("/reserve", h.Reserve).Methods(http.MethodPost)
	r.HandleFunc("/cancel-reservation", h.CancelReservation).Methods(http.MethodPost)
	r.HandleFunc("/overview", h.Overview).Methods(http.MethodGet)
	r.HandleFunc("/monthly-stats", h.MonthlyStats).Methods(http.MethodGet)
}

type batchBorrowRequest struct {
	UserID  int64   `json:"user_id"`
	BookIDs []int64 `json:"book_ids"`
}

func (h *LibraryHandler) BatchBorrow(w http.ResponseWriter, r *http.Request) {
	var req batchBorrowRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	results := h.librarySvc.BatchBorrowBooks(r.Context(), req.UserID, req.BookIDs)
	writeData(w, http.StatusOK, results)
}

type batchReturnRequest struct {
	UserID    int64   `json:"user_id"`
	RecordIDs []int64 `json:"record_ids"`
}

func (h *LibraryHandler) BatchReturn(w http.ResponseWriter, r *http.Request) {
	var req batchReturnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	results := h.librarySvc.BatchReturnBooks(r.Context(), req.UserID, req.RecordIDs)
	writeData(w, http.StatusOK, results)
}

type reservationRequest struct {
	UserID int64 `json:"user_id"`
	BookID int64 `json:"book_id"`
}

func (h *LibraryHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	book, err := h.librarySvc.ReserveBook(r.Context(), req.UserID, req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, book)
}

func (h *LibraryHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.librarySvc.CancelReservation(r.Context(), req.UserID, req.BookID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "reservation cancelled")
}

func (h *LibraryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.librarySvc.GetLibraryOverview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, overview)
}

func (h *LibraryHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.librarySvc.GetMonthlyBorrowStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
