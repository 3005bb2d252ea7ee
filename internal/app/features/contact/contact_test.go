package contact_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/features/contact"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/events"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/dealroom-et/dealroom/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *testutil.Fixtures, *events.Recorder) {
	t.Helper()
	db := testutil.SetupIndexedDB(t)
	rec := &events.Recorder{}
	h := contact.NewHandler(db, rec, nil, zap.NewNop())
	open := func(next http.Handler) http.Handler { return next }
	r := chi.NewRouter()
	r.Mount("/api/contact", contact.Routes(h, open))
	r.Mount("/api/contacts", contact.AdminRoutes(h, open))
	return r, testutil.NewFixtures(t, db), rec
}

func serve(h http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestSubmit_MessageLengthBoundary(t *testing.T) {
	router, _, published := newRouter(t)

	tests := []struct {
		name    string
		message string
		want    int
	}{
		{"five chars", "Hello", http.StatusBadRequest},
		{"padded nine", "  123456789  ", http.StatusBadRequest},
		{"exactly ten", "0123456789", http.StatusCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := map[string]string{"name": "Abel", "email": "abel@example.et", "message": tc.message}
			rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/contact/", body))
			rec.AssertStatus(t, tc.want)
			if tc.want == http.StatusBadRequest {
				rec.AssertContains(t, "Message must be at least 10 characters long.")
			}
		})
	}
	if got := published.Subjects(); len(got) != 1 || got[0] != events.ContactReceived {
		t.Errorf("published = %v", got)
	}
}

func TestSubmit_Normalizes(t *testing.T) {
	router, _, _ := newRouter(t)

	body := map[string]string{"name": "  Liya ", "email": "Liya@Example.ET", "message": "  I would like to list my startup.  "}
	rec := serve(router, testutil.NewRequest(t, http.MethodPost, "/api/contact/", body))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Thank you for your message!")

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/api/contacts/", nil))
	var page apiutil.Page[contact.AdminView]
	rec.DecodeJSON(t, &page)
	if page.Count != 1 {
		t.Fatalf("count = %d", page.Count)
	}
	c := page.Results[0]
	if c.Name != "Liya" || c.Email != "liya@example.et" || strings.HasPrefix(c.Message, " ") || c.Status != models.ContactNew {
		t.Errorf("stored = %+v", c.Contact)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, "/api/contact/", map[string]string{"name": "L", "email": "x", "message": "0123456789"}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Name must be at least 2 characters long.")
	rec.AssertContains(t, "Enter a valid email address.")
}

func TestAdminActions(t *testing.T) {
	router, fx, _ := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateContact(ctx, "Dawit", "dawit@example.et", "Please update our funding data.")
	base := "/api/contacts/" + c.ID.Hex()

	rec := serve(router, testutil.NewRequest(t, http.MethodPatch, base, map[string]string{"status": "in_progress"}))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"in_progress"`)

	rec = serve(router, testutil.NewRequest(t, http.MethodPatch, base, map[string]string{"status": "archived"}))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, base+"/add_notes", map[string]string{"notes": "  "}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Notes cannot be empty")

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, base+"/add_notes", map[string]string{"notes": "Called back"}))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Notes added successfully")

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodPost, base+"/mark_resolved", nil), testutil.StaffUser())
	rec = serve(router, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Contact from Dawit marked as resolved")

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, base, nil))
	var v contact.AdminView
	rec.DecodeJSON(t, &v)
	if v.Status != models.ContactResolved || v.RespondedAt == nil || v.RespondedByName != "reviewer" || v.AdminNotes != "Called back" {
		t.Errorf("after resolve: %+v", v)
	}

	rec = serve(router, testutil.NewRequest(t, http.MethodPost, "/api/contacts/"+primitive.NewObjectID().Hex()+"/mark_resolved", nil))
	rec.AssertStatus(t, http.StatusNotFound)
}
