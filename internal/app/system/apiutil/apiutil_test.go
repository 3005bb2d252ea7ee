package apiutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
)

func TestValidationFailed(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFailed(rec, "", inputval.Errors{"email": {"Enter a valid email address."}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Message != "Validation failed" || body.Errors["email"][0] != "Enter a valid email address." {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"Not found."`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeOrReject(t *testing.T) {
	var dst struct{ Name string }
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	if !DecodeOrReject(rec, r, &dst) || dst.Name != "x" {
		t.Fatalf("decode failed: %+v", dst)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	if DecodeOrReject(rec, r, &dst) {
		t.Fatal("expected failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if DecodeOrReject(rec, r, &dst) {
		t.Fatal("empty body should fail")
	}
}

func TestPagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://api.test/api/companies?page=2&page_size=10&search=pay", nil)
	p := ReadPage(r)
	if p.Page != 2 || p.Size != 10 || p.Skip() != 10 {
		t.Fatalf("ReadPage = %+v", p)
	}

	page := NewPage(r, p, 35, []int{1, 2})
	if page.Count != 35 || len(page.Results) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if page.Next == nil || !strings.Contains(*page.Next, "page=3") || !strings.Contains(*page.Next, "search=pay") {
		t.Errorf("next = %v", page.Next)
	}
	if page.Previous == nil || strings.Contains(*page.Previous, "page=") {
		t.Errorf("previous = %v", page.Previous)
	}

	last := NewPage[int](r, PageParams{Page: 4, Size: 10}, 35, nil)
	if last.Next != nil {
		t.Errorf("last page next = %v", *last.Next)
	}
	if last.Results == nil {
		t.Error("results must encode as []")
	}

	big := ReadPage(httptest.NewRequest(http.MethodGet, "/x?page_size=1000&page=-1", nil))
	if big.Size != MaxPageSize || big.Page != 1 {
		t.Errorf("clamp = %+v", big)
	}
}
