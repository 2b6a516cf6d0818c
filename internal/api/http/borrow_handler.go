package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

// BorrowHandler serves the borrow-record endpoints, backed by the workflow
// service for mutations and the reporting service for list views.
type BorrowHandler struct {
	borrowSvc  service.BorrowService
	librarySvc service.LibraryService
}

func NewBorrowHandler(borrowSvc service.BorrowService, librarySvc service.LibraryService) *BorrowHandler {
	return &BorrowHandler{borrowSvc: borrowSvc, librarySvc: librarySvc}
}

func (h *BorrowHandler) Register(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/current", h.ListCurrent).Methods(http.MethodGet)
	r.HandleFunc("/overdue", h.ListOverdue).Methods(http.MethodGet)
	r.HandleFunc("/due-today", h.ListDueToday).Methods(http.MethodGet)
	r.HandleFunc("/statistics", h.Statistics).Methods(http.MethodGet)
	r.HandleFunc("/check-borrowed", h.CheckBorrowed).Methods(http.MethodGet)
	r.HandleFunc("/user/{userId:[0-9]+}", h.ListByUser).Methods(http.MethodGet)
	r.HandleFunc("/user/{userId:[0-9]+}/current", h.ListUserCurrent).Methods(http.MethodGet)
	r.HandleFunc("/user/{userId:[0-9]+}/can-borrow", h.CanBorrow).Methods(http.MethodGet)
	r.HandleFunc("/book/{bookId:[0-9]+}", h.ListByBook).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/return", h.Return).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}/renew", h.Renew).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}/calculate-fine", h.CalculateFine).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/pay-fine", h.PayFine).Methods(http.MethodPost)
}

type createBorrowRequest struct {
	UserID     int64  `json:"user_id"`
	BookID     int64  `json:"book_id"`
	BorrowDays int    `json:"borrow_days"`
	Notes      string `json:"notes"`
}

func (h *BorrowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBorrowRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.borrowSvc.CreateBorrowRecord(r.Context(), req.UserID, req.BookID, req.BorrowDays, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, rec)
}

func (h *BorrowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.borrowSvc.GetBorrowRecord(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.borrowSvc.ReturnBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *BorrowHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	days, err := queryInt(r, "additionalDays")
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.borrowSvc.RenewBorrow(r.Context(), id, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (h *BorrowHandler) CalculateFine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	fine, err := h.borrowSvc.CalculateOverdueFine(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]float64{"fine": fine})
}

func (h *BorrowHandler) PayFine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		writeError(w, domain.InvalidArgument("invalid amount"))
		return
	}
	if err := h.borrowSvc.PayFine(r.Context(), id, amount); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "fine paid")
}

func (h *BorrowHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.librarySvc.GetUserBorrowHistory(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (h *BorrowHandler) ListUserCurrent(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.librarySvc.GetUserCurrentBorrows(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (h *BorrowHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.librarySvc.GetRecordsByBook(r.Context(), bookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (h *BorrowHandler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	records, err := h.librarySvc.GetCurrentBorrows(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (h *BorrowHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	records, err := h.librarySvc.GetOverdueRecords(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (h *BorrowHandler) ListDueToday(w http.ResponseWriter, r *http.Request) {
	records, err := h.librarySvc.GetDueTodayRecords(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (h *BorrowHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.librarySvc.GetBorrowStatistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *BorrowHandler) CanBorrow(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	ok, err := h.borrowSvc.CanUserBorrowMore(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"can_borrow": ok})
}

func (h *BorrowHandler) CheckBorrowed(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	bookID, err := queryID(r, "bookId")
	if err != nil {
		writeError(w, err)
		return
	}
	borrowed, err := h.borrowSvc.HasUserBorrowedBook(r.Context(), userID, bookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"borrowed": borrowed})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("invalid %s", name)
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("invalid %s", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0, domain.InvalidArgument("invalid %s", name)
	}
	return v, nil
}
