package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/client"
	"admin-dashboard/internal/middleware"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newProductManager(t *testing.T, seed ...api.Product) (*Manager[api.Product], *fakeREST[api.Product], *noticeLog) {
	t.Helper()

	fake, c := newFakeREST(t, api.Products, setProductID, seed...)
	notices := &noticeLog{}
	m := NewManager(ProductSchema(Deps{Client: c, Notifier: notices}))

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m, fake, notices
}

// Feature: admin-dashboard, Property 17: Saving a new record adds exactly one identified record
func TestProperty_CreateAddsOneRecord(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("create grows the collection by one and the new record has an id", prop.ForAll(
		func(existing int, name string) bool {
			seed := make([]api.Product, existing)
			for i := range seed {
				seed[i] = validProduct(fmt.Sprintf("seed%d", i))
			}
			m, _, _ := newProductManager(t, seed...)

			saved, err := m.Save(context.Background(), validProduct(name))
			if err != nil || saved.ID == "" {
				return false
			}

			items := m.Items()
			found, ok := m.Find(saved.ID)
			return len(items) == existing+1 && ok && found.Name == name
		},
		gen.IntRange(0, 8),
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: admin-dashboard, Property 18: Updating a record replaces only that record
func TestProperty_UpdateReplacesOnlyTarget(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("update keeps the size and leaves the other records alone", prop.ForAll(
		func(size, target int, price float64) bool {
			seed := make([]api.Product, size)
			for i := range seed {
				seed[i] = validProduct(fmt.Sprintf("item%d", i))
			}
			m, _, _ := newProductManager(t, seed...)
			before := m.Items()

			edited := before[target%size]
			edited.Price = price
			if _, err := m.Save(context.Background(), edited); err != nil {
				return false
			}

			after := m.Items()
			if len(after) != len(before) {
				return false
			}
			for i := range after {
				if i == target%size {
					if after[i].Price != price || after[i].ID != edited.ID {
						return false
					}
					continue
				}
				if after[i] != before[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 100),
		gen.Float64Range(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: admin-dashboard, Property 19: Confirmed removal drops exactly that record
func TestProperty_RemoveDropsOneRecord(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("remove shrinks the collection by one", prop.ForAll(
		func(size, target int) bool {
			seed := make([]api.Product, size)
			for i := range seed {
				seed[i] = validProduct(fmt.Sprintf("item%d", i))
			}
			m, fake, _ := newProductManager(t, seed...)
			id := m.Items()[target%size].ID

			if err := m.Remove(context.Background(), id); err != nil {
				return false
			}

			_, stillLocal := m.Find(id)
			return len(m.Items()) == size-1 && !stillLocal && fake.size() == size-1
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSave_InvalidRecordSendsNothing(t *testing.T) {
	m, fake, notices := newProductManager(t)
	sent := fake.requestCount()

	bad := validProduct("Pen")
	bad.Image = "not a url"
	bad.Name = ""

	_, err := m.Save(context.Background(), bad)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	if !fields["name"] || !fields["image"] {
		t.Errorf("expected name and image to fail, got %+v", verr.Fields)
	}

	if fake.requestCount() != sent {
		t.Error("an invalid record must not reach the server")
	}
	if n, ok := notices.last(); !ok || n.Kind != NoticeError {
		t.Errorf("expected an error notice, got %+v", n)
	}
}

func TestSave_ServerFailureKeepsState(t *testing.T) {
	m, fake, notices := newProductManager(t, validProduct("Pen"))
	before := m.Items()

	fake.failNextWith(http.StatusInternalServerError)
	_, err := m.Save(context.Background(), validProduct("Pencil"))

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected a 500 APIError, got %v", err)
	}
	if len(m.Items()) != len(before) {
		t.Errorf("state changed after a failed save: %+v", m.Items())
	}
	if n, _ := notices.last(); n.Kind != NoticeError || !strings.Contains(n.Message, "backend says no") {
		t.Errorf("expected the server message in the notice, got %+v", n)
	}
}

func TestSave_ResponseWithoutIDIsRejected(t *testing.T) {
	fake, c := newFakeREST(t, api.Products, func(p api.Product, _ string) api.Product {
		p.ID = ""
		return p
	})
	m := NewManager(ProductSchema(Deps{Client: c}))

	if _, err := m.Save(context.Background(), validProduct("Pen")); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if len(m.Items()) != 0 || fake.requestCount() != 1 {
		t.Errorf("unexpected state %+v after %d requests", m.Items(), fake.requestCount())
	}
}

func TestSave_EnvelopedCategoryUpdate(t *testing.T) {
	_, c := newFakeREST(t, api.Categories, setCategoryID, api.Category{Name: "Pens", Description: "writing"})
	m := NewManager(CategorySchema(Deps{Client: c}))
	ctx := context.Background()

	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	stored := m.Items()[0]
	stored.Description = "everything that writes"

	saved, err := m.Save(ctx, stored)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID != stored.ID || saved.Description != "everything that writes" {
		t.Errorf("envelope not unwrapped: %+v", saved)
	}
	if got := m.Items(); len(got) != 1 || got[0].Description != "everything that writes" {
		t.Errorf("local state not merged: %+v", got)
	}
}

func TestRemove_DeclinedSendsNothing(t *testing.T) {
	fake, c := newFakeREST(t, api.Products, setProductID, validProduct("Pen"))
	var prompt string
	m := NewManager(ProductSchema(Deps{
		Client: c,
		Confirmer: ConfirmFunc(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return false, nil
		}),
	}))
	ctx := context.Background()

	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sent := fake.requestCount()

	if err := m.Remove(ctx, "1"); !errors.Is(err, ErrRemoveCancelled) {
		t.Fatalf("expected ErrRemoveCancelled, got %v", err)
	}
	if fake.requestCount() != sent || len(m.Items()) != 1 {
		t.Error("a declined delete must not touch server or state")
	}
	if !strings.Contains(prompt, "product") {
		t.Errorf("prompt should name the resource: %q", prompt)
	}
}

func TestRemove_UnknownIDKeepsState(t *testing.T) {
	m, _, notices := newProductManager(t, validProduct("Pen"))

	err := m.Remove(context.Background(), "404")

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected a 404 APIError, got %v", err)
	}
	if len(m.Items()) != 1 {
		t.Errorf("state changed: %+v", m.Items())
	}
	if n, _ := notices.last(); n.Kind != NoticeError {
		t.Errorf("expected an error notice, got %+v", n)
	}
}

func TestLoad_FailureKeepsPriorState(t *testing.T) {
	m, fake, notices := newProductManager(t, validProduct("Pen"), validProduct("Paper"))

	fake.failNextWith(http.StatusServiceUnavailable)
	if err := m.Load(context.Background()); err == nil {
		t.Fatal("expected Load to fail")
	}

	if len(m.Items()) != 2 || m.Loading() {
		t.Errorf("prior state lost or still loading: %+v", m.Items())
	}
	if n, _ := notices.last(); !strings.HasPrefix(n.Message, "Failed to load products") {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestLoad_TransportFailure(t *testing.T) {
	notices := &noticeLog{}
	m := NewManager(ProductSchema(Deps{Client: client.New("http://127.0.0.1:1"), Notifier: notices}))

	err := m.Load(context.Background())
	if !errors.Is(err, client.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if n, _ := notices.last(); !strings.Contains(n.Message, "server unreachable") {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestSearchAndPaginate(t *testing.T) {
	var seed []api.Product
	for i := range 8 {
		seed = append(seed, validProduct(fmt.Sprintf("pen%d", i)))
	}
	seed = append(seed, validProduct("Paper"))
	m, _, _ := newProductManager(t, seed...)

	second, err := m.Paginate(2)
	if err != nil || second.Pages != 2 || len(second.Items) != 3 {
		t.Fatalf("unexpected page 2: %+v, %v", second, err)
	}

	m.Search("PEN")
	current, err := m.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current.Number != 1 || current.TotalItems != 8 || m.Term() != "PEN" {
		t.Errorf("search must reset to page 1 of the filtered set: %+v", current)
	}

	m.Search("nothing matches")
	if empty, err := m.Current(); err != nil || len(empty.Items) != 0 {
		t.Errorf("expected an empty first page, got %+v, %v", empty, err)
	}

	if _, err := m.Paginate(3); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
}

func TestUserSchema_Variants(t *testing.T) {
	if got := UserSchema(Deps{}, "legacy").Endpoints.Create; got != "/addUsers" {
		t.Errorf("legacy create path: %q", got)
	}
	if got := UserSchema(Deps{}, "").Endpoints.List; got != "/api/users" {
		t.Errorf("canonical list path: %q", got)
	}
}

func TestSave_UserPasswordOnlyRequiredOnCreate(t *testing.T) {
	fake, c := newFakeREST(t, api.UsersCanonical, func(u api.User, id string) api.User {
		u.ID = id
		u.Password = ""
		return u
	})
	m := NewManager(UserSchema(Deps{Client: c}, "canonical"))
	ctx := context.Background()

	user := api.User{Username: "alice", Email: "alice@example.com", Mobile: "+15551234567"}

	var verr *ValidationError
	if _, err := m.Save(ctx, user); !errors.As(err, &verr) {
		t.Fatalf("create without password should fail validation, got %v", err)
	}

	user.Password = "secret-pass"
	created, err := m.Save(ctx, user)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Username = "alice2"
	if _, err := m.Save(ctx, created); err != nil {
		t.Fatalf("update with blank password failed: %v", err)
	}
	if fake.requestCount() != 2 || m.Items()[0].Username != "alice2" {
		t.Errorf("unexpected state %+v", m.Items())
	}
}

func TestRemove_LastItemOnLastPageFallsBack(t *testing.T) {
	seed := make([]api.Product, 7)
	for i := range seed {
		seed[i] = validProduct(fmt.Sprintf("item%d", i))
	}
	m, _, _ := newProductManager(t, seed...)
	ctx := context.Background()

	if _, err := m.Paginate(2); err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if err := m.Remove(ctx, m.Items()[6].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	current, err := m.Current()
	if err != nil {
		t.Fatalf("Current after emptying the last page: %v", err)
	}
	if current.Number != 1 || current.Pages != 1 || len(current.Items) != 6 {
		t.Errorf("expected the full first page, got %+v", current)
	}

	for _, item := range m.Items() {
		if err := m.Remove(ctx, item.ID); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
	}
	if empty, err := m.Current(); err != nil || empty.Number != 1 || len(empty.Items) != 0 {
		t.Errorf("expected an empty first page, got %+v, %v", empty, err)
	}
}

func TestLoad_LoadingWhileRequestIsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		middleware.RespondWithJSON(w, http.StatusOK, []api.Product{validProduct("Pen")})
	}))
	t.Cleanup(srv.Close)

	m := NewManager(ProductSchema(Deps{Client: client.New(srv.URL)}))
	if m.Loading() {
		t.Fatal("a fresh manager is not loading")
	}

	done := make(chan error, 1)
	go func() { done <- m.Load(context.Background()) }()

	<-started
	if !m.Loading() {
		t.Error("Loading must be true while the list request is pending")
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Loading() || len(m.Items()) != 1 {
		t.Errorf("expected a finished load with one record, loading=%v items=%+v", m.Loading(), m.Items())
	}
}
