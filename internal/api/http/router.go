package http

import (
	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/security"
	"library-backend/internal/service"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Borrow  *BorrowHandler
	Library *LibraryHandler
	User    *UserHandler
	Book    *BookHandler
	Tokens  security.TokenManager
}

func NewHandlers(
	borrowSvc service.BorrowService,
	librarySvc service.LibraryService,
	userSvc service.UserService,
	bookSvc service.BookService,
	tokens security.TokenManager,
) *Handlers {
	return &Handlers{
		Borrow:  NewBorrowHandler(borrowSvc, librarySvc),
		Library: NewLibraryHandler(librarySvc),
		User:    NewUserHandler(userSvc),
		Book:    NewBookHandler(bookSvc),
		Tokens:  tokens,
	}
}

// NewRouter builds the full route tree. Register and login are public;
// everything else requires a valid access token, and catalog mutations
// additionally require a staff role.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recovery, RequestID, Logging)

	api := r.PathPrefix("/api").Subrouter()

	public := api.PathPrefix("/users").Subrouter()
	h.User.RegisterPublic(public)

	auth := Auth(h.Tokens)

	users := api.PathPrefix("/users").Subrouter()
	users.Use(auth)
	h.User.Register(users)

	borrows := api.PathPrefix("/borrow-records").Subrouter()
	borrows.Use(auth)
	h.Borrow.Register(borrows)

	library := api.PathPrefix("/library").Subrouter()
	library.Use(auth)
	h.Library.Register(library)

	books := api.PathPrefix("/books").Subrouter()
	books.Use(auth)
	h.Book.Register(books)

	staffOnly := RequireRole(string(domain.UserRoleAdmin), string(domain.UserRoleLibrarian))
	booksAdmin := api.PathPrefix("/books").Subrouter()
	booksAdmin.Use(auth, staffOnly)
	h.Book.RegisterAdmin(booksAdmin)

	return r
}
