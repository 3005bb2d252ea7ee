package listfilter

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReadModeration(t *testing.T) {
	tests := []struct {
		url      string
		wantAll  bool
		wantStat string
	}{
		{"/api/companies", false, "accepted"},
		{"/api/companies?moderation_status=pending", false, "pending"},
		{"/api/companies?moderation_status=all", true, ""},
	}
	for _, tc := range tests {
		m := ReadModeration(httptest.NewRequest("GET", tc.url, nil), "accepted")
		if m.All != tc.wantAll || m.Status != tc.wantStat {
			t.Errorf("%s: got %+v", tc.url, m)
		}
		f := bson.M{}
		m.Apply(f)
		_, has := f["moderation_status"]
		if has == tc.wantAll {
			t.Errorf("%s: filter %v", tc.url, f)
		}
	}
}

func TestSearch(t *testing.T) {
	f := bson.M{}
	Search(f, "a.b", "name", "description")
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("filter = %v", f)
	}
	re := or[0].(bson.M)["name"].(bson.M)["$regex"]
	if re != `a\.b` {
		t.Errorf("regex = %v, want escaped", re)
	}

	empty := bson.M{}
	Search(empty, "   ", "name")
	if len(empty) != 0 {
		t.Errorf("blank search should not filter: %v", empty)
	}
}

func TestOrdering(t *testing.T) {
	allowed := map[string]string{"name": "name", "created_at": "created_at"}
	def := bson.D{{Key: "name", Value: 1}}

	got := Ordering(httptest.NewRequest("GET", "/x?ordering=-created_at,bogus", nil), allowed, def)
	if len(got) != 2 || got[0].Key != "created_at" || got[0].Value != -1 || got[1].Key != "_id" {
		t.Errorf("ordering = %v", got)
	}

	got = Ordering(httptest.NewRequest("GET", "/x?ordering=bogus", nil), allowed, def)
	if len(got) != 1 || got[0].Key != "name" {
		t.Errorf("fallback = %v", got)
	}
}

func TestEqual(t *testing.T) {
	f := bson.M{}
	Equal(httptest.NewRequest("GET", "/x?status=Operating&hq_city=", nil), f,
		map[string]string{"status": "status", "hq_city": "hq_city"})
	if f["status"] != "Operating" {
		t.Errorf("status = %v", f["status"])
	}
	if _, ok := f["hq_city"]; ok {
		t.Error("empty params must be skipped")
	}
}
