package resource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/client"
	"admin-dashboard/internal/middleware"
)

// fakeREST serves one collection over the given endpoints
type fakeREST[T Record] struct {
	mu       sync.Mutex
	items    []T
	nextID   int
	requests int
	failNext int // status to answer the next request with, 0 for none

	setID     func(T, string) T
	endpoints api.Endpoints
}

func newFakeREST[T Record](t *testing.T, endpoints api.Endpoints, setID func(T, string) T, seed ...T) (*fakeREST[T], *client.Client) {
	t.Helper()

	f := &fakeREST[T]{endpoints: endpoints, setID: setID}
	for _, item := range seed {
		f.create(item)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+endpoints.List, f.list)
	mux.HandleFunc("POST "+endpoints.Create, f.post)
	mux.HandleFunc("PUT "+endpoints.Update, f.put)
	mux.HandleFunc("DELETE "+endpoints.Delete, f.delete)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		status := f.failNext
		f.failNext = 0
		f.mu.Unlock()

		if status != 0 {
			middleware.RespondWithError(w, status, "backend says no")
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return f, client.New(srv.URL)
}

func (f *fakeREST[T]) create(item T) T {
	f.nextID++
	item = f.setID(item, strconv.Itoa(f.nextID))
	f.items = append(f.items, item)
	return item
}

func (f *fakeREST[T]) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	middleware.RespondWithJSON(w, http.StatusOK, f.items)
}

func (f *fakeREST[T]) post(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	middleware.RespondWithJSON(w, http.StatusCreated, f.create(item))
}

func (f *fakeREST[T]) put(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	i := slices.IndexFunc(f.items, func(it T) bool { return it.RecordID() == id })
	if i < 0 {
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
		return
	}
	f.items[i] = f.setID(item, id)

	if f.endpoints.UpdateEnveloped {
		middleware.RespondWithJSON(w, http.StatusOK, api.DataResponse[T]{Message: "updated", Data: f.items[i]})
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, f.items[i])
}

func (f *fakeREST[T]) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	before := len(f.items)
	f.items = slices.DeleteFunc(f.items, func(it T) bool { return it.RecordID() == id })
	if len(f.items) == before {
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, api.MessageResponse{Message: "deleted"})
}

func (f *fakeREST[T]) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeREST[T]) failNextWith(status int) {
	f.mu.Lock()
	f.failNext = status
	f.mu.Unlock()
}

func setProductID(p api.Product, id string) api.Product { p.ID = id; return p }

func setCategoryID(c api.Category, id string) api.Category { c.ID = id; return c }

// noticeLog records notices
type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *noticeLog) Notify(notice Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

func (n *noticeLog) last() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return Notice{}, false
	}
	return n.notices[len(n.notices)-1], true
}

func validProduct(name string) api.Product {
	return api.Product{
		Name:        name,
		Price:       10,
		Description: name + " description",
		Quantity:    3,
		Category:    "Stationery",
		Image:       "https://img.example.com/" + name + ".png",
	}
}

func (f *fakeREST[T]) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
