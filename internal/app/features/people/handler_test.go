package people_test

import (
	"net/http"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/features/people"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupIndexedDB(t)
	h := people.NewHandler(db, nil, zap.NewNop())
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Mount("/api/people", people.Routes(h, open))
	return r, testutil.NewFixtures(t, db)
}

func serve(h http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestList_SearchAndOrder(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePerson(ctx, "Selam Tesfaye", "")
	fx.CreatePerson(ctx, "Abebe Kebede", "abebe@example.et")

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/api/people/", nil))
	rec.AssertStatus(t, http.StatusOK)
	var page apiutil.Page[models.Person]
	rec.DecodeJSON(t, &page)
	if page.Count != 2 || page.Results[0].FullName != "Abebe Kebede" {
		t.Fatalf("page = %+v", page)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/people/?search=selam", nil))
	rec.DecodeJSON(t, &page)
	if page.Count != 1 || page.Results[0].FullName != "Selam Tesfaye" {
		t.Errorf("search = %+v", page.Results)
	}
}

func TestCreate_EmailRules(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePerson(ctx, "Existing", "taken@example.et")

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing name", map[string]any{"email": "a@example.et"}, http.StatusBadRequest},
		{"bad email", map[string]any{"full_name": "A", "email": "nope"}, http.StatusBadRequest},
		{"duplicate email", map[string]any{"full_name": "B", "email": "taken@example.et"}, http.StatusBadRequest},
		{"no email", map[string]any{"full_name": "C"}, http.StatusCreated},
		{"second without email", map[string]any{"full_name": "D"}, http.StatusCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/people/", tc.body))
			rec.AssertStatus(t, tc.want)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	router, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePerson(ctx, "Hanna Girma", "hanna@example.et")

	rec := serve(router, testutil.NewRequest(t, http.MethodPatch, "/api/people/"+p.ID.Hex(), map[string]any{
		"bio":   "Founder",
		"email": "",
	}))
	rec.AssertStatus(t, http.StatusOK)
	var got models.Person
	rec.DecodeJSON(t, &got)
	if got.Bio != "Founder" || got.Email != nil || got.FullName != "Hanna Girma" {
		t.Errorf("updated = %+v", got)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodDelete, "/api/people/"+p.ID.Hex(), nil))
	rec.AssertStatus(t, http.StatusNoContent)
	rec = serve(router, testutil.NewRequest(t, http.MethodDelete, "/api/people/"+p.ID.Hex(), nil))
	rec.AssertStatus(t, http.StatusNotFound)
}
