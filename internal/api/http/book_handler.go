package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type BookHandler struct {
	bookSvc service.BookService
}

func NewBookHandler(bookSvc service.BookService) *BookHandler {
	return &BookHandler{bookSvc: bookSvc}
}

// Register mounts the read endpoints available to every authenticated user.
func (h *BookHandler) Register(r *mux.Router) {
	r.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/available", h.ListAvailable).Methods(http.MethodGet)
	r.HandleFunc("/low-stock", h.ListLowStock).Methods(http.MethodGet)
	r.HandleFunc("/isbn/{isbn}", h.GetByISBN).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/available", h.CheckAvailable).Methods(http.MethodGet)
}

// RegisterAdmin mounts the catalog mutations, guarded by role middleware.
func (h *BookHandler) RegisterAdmin(r *mux.Router) {
	r.HandleFunc("", h.Add).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func (h *BookHandler) Add(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		writeError(w, err)
		return
	}
	if err := h.bookSvc.AddBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, &book)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	book, err := h.bookSvc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, book)
}

func (h *BookHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookSvc.GetBookByISBN(r.Context(), mux.Vars(r)["isbn"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var book domain.Book
	if err := decodeBody(r, &book); err != nil {
		writeError(w, err)
		return
	}
	book.ID = id
	if err := h.bookSvc.UpdateBook(r.Context(), &book); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, &book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.bookSvc.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "book deleted")
}

func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := int32(1)
	pageSize := int32(50)
	if v, err := queryInt(r, "page"); err == nil {
		page = int32(v)
	}
	if v, err := queryInt(r, "pageSize"); err == nil {
		pageSize = int32(v)
	}
	books, total, err := h.bookSvc.SearchBooks(r.Context(), q.Get("query"), q.Get("category"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"books": books, "total": total})
}

func (h *BookHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookSvc.ListAvailableBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, books)
}

func (h *BookHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookSvc.ListLowStockBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, books)
}

func (h *BookHandler) CheckAvailable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	available, err := h.bookSvc.IsBookAvailable(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"available": available})
}
