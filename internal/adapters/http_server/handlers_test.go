package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "reviewhub/internal/adapters/http_server"
	"reviewhub/internal/app"
	"reviewhub/internal/domain"
)

type stubFetch struct{ items []map[string]any }

func (f *stubFetch) FetchReviews(ctx context.Context, p domain.Platform, payload map[string]any) (domain.FetchResult, error) {
	return domain.FetchResult{Items: f.items, Cost: 0.5}, nil
}

type memRepo struct{ ids map[string]struct{} }

func (m *memRepo) ListExternalIDs(ctx context.Context, tenantID string, p domain.Platform) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for id := range m.ids {
		out[id] = struct{}{}
	}
	return out, nil
}
func (m *memRepo) CreateContact(ctx context.Context, c domain.Contact) error { return nil }
func (m *memRepo) InsertReview(ctx context.Context, r domain.StoredReview) error {
	if m.ids == nil {
		m.ids = map[string]struct{}{}
	}
	m.ids[r.ExternalReviewID] = struct{}{}
	return nil
}

func newTestServer(items []map[string]any) *httptest.Server {
	svc := app.NewImportService(&stubFetch{items: items}, &memRepo{}, nil, time.Minute)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Imports: svc})
	return httptest.NewServer(srv.Mux())
}

func TestListPlatforms(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/platforms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var infos []domain.PlatformInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 4 {
		t.Fatalf("platforms: %+v", infos)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	req, _ := http.NewRequest("GET", ts.URL+"/v1/platforms", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("want 304, got %d", resp2.StatusCode)
	}
}

func TestImportEndpoint(t *testing.T) {
	ts := newTestServer([]map[string]any{
		{"review_id": "r1", "user_name": "Ana", "review_text": "ok", "rating": map[string]any{"value": 5.0}},
	})
	defer ts.Close()

	body := `{"tenantId":"t1","businessId":"b1","platform":"trustpilot","input":{"domain":"example.com"}}`
	resp, err := http.Post(ts.URL+"/v1/reviews/import", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var res domain.ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.ImportedCount != 1 || res.Cost != 0.5 {
		t.Fatalf("result: %+v", res)
	}
}

func TestImportEndpoint_BadRequests(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	for _, body := range []string{
		`{not json`,
		`{"platform":"trustpilot","input":{"domain":"example.com"}}`, // no tenant
	} {
		resp, err := http.Post(ts.URL+"/v1/reviews/import", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: status %d", body, resp.StatusCode)
		}
	}
}

func TestImportEndpoint_ValidationMessageInEnvelope(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	// tenant present but the platform's required field is missing: the
	// call fails inside the workflow and reports through the envelope
	body := `{"tenantId":"t1","businessId":"b1","platform":"trustpilot","input":{}}`
	resp, err := http.Post(ts.URL+"/v1/reviews/import", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var res domain.ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Error == "" {
		t.Fatalf("result: %+v", res)
	}
}

func TestPreviewThenConfirmEndpoints(t *testing.T) {
	ts := newTestServer([]map[string]any{
		{"review_id": "r1", "user_name": "Ana", "rating": map[string]any{"value": 4.0}},
		{"review_id": "r2", "user_name": "Bob", "rating": map[string]any{"value": 2.0}},
	})
	defer ts.Close()

	body := `{"tenantId":"t1","businessId":"b1","platform":"trustpilot","input":{"domain":"example.com"}}`
	resp, err := http.Post(ts.URL+"/v1/reviews/preview", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	var prev domain.PreviewResult
	if err := json.NewDecoder(resp.Body).Decode(&prev); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !prev.Success || prev.NewCount != 2 || prev.Confirm == nil {
		t.Fatalf("preview: %+v", prev)
	}

	confirm := prev.Confirm
	for _, pr := range prev.Reviews {
		if pr.IsNew {
			confirm.Reviews = append(confirm.Reviews, pr.Review)
		}
	}
	cb, _ := json.Marshal(confirm)
	resp, err = http.Post(ts.URL+"/v1/reviews/confirm", "application/json", strings.NewReader(string(cb)))
	if err != nil {
		t.Fatal(err)
	}
	var res domain.ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !res.Success || res.ImportedCount != 2 || res.Cost != 0 {
		t.Fatalf("confirm: %+v", res)
	}
}
