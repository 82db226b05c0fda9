package resources

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/healthmetrics/healthmcp/internal/loader"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeSource struct {
	ds        *healthdata.Dataset
	err       error
	st        *loader.Status
	loadCalls int
}

func (f *fakeSource) Dataset(ctx context.Context) (*healthdata.Dataset, error) {
	f.loadCalls++
	return f.ds, f.err
}

func (f *fakeSource) Status(ctx context.Context, limit int) (*loader.Status, error) {
	return f.st, nil
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func contentText(t *testing.T, contents []mcp.ResourceContents) (string, string) {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc.MIMEType, tc.Text
}

func TestHandleStatus_DoesNotLoad(t *testing.T) {
	src := &fakeSource{st: &loader.Status{
		Source:      &healthdata.SourceMetadata{Name: "health.xlsx"},
		RecentLoads: nil,
	}}
	h := NewHandler(src)

	got, err := h.HandleStatus(context.Background(), readReq(StatusURI))
	if err != nil {
		t.Fatalf("HandleStatus: %v", err)
	}
	mime, text := contentText(t, got)
	if mime != "application/json" {
		t.Errorf("mime = %q", mime)
	}
	if !strings.Contains(text, `"name": "health.xlsx"`) {
		t.Errorf("unexpected body:\n%s", text)
	}
	if src.loadCalls != 0 {
		t.Errorf("status must not load the dataset, got %d loads", src.loadCalls)
	}
}

func TestHandleProfile(t *testing.T) {
	h := NewHandler(&fakeSource{ds: &healthdata.Dataset{
		Profile: healthdata.UserProfile{UserID: "USR001", FitnessGoal: "endurance"},
	}})

	got, err := h.HandleProfile(context.Background(), readReq(ProfileURI))
	if err != nil {
		t.Fatalf("HandleProfile: %v", err)
	}
	_, text := contentText(t, got)
	if !strings.Contains(text, `"user_id": "USR001"`) || !strings.Contains(text, `"fitness_goal": "endurance"`) {
		t.Errorf("unexpected body:\n%s", text)
	}
}

func TestHandleProfile_LoadError(t *testing.T) {
	h := NewHandler(&fakeSource{err: &healthdata.ParseError{Err: errors.New("bad zip")}})

	got, err := h.HandleProfile(context.Background(), readReq(ProfileURI))
	if err != nil {
		t.Fatalf("HandleProfile: %v", err)
	}
	mime, text := contentText(t, got)
	if mime != "text/plain" || !strings.Contains(text, "failed to parse health workbook") {
		t.Errorf("got %s %q", mime, text)
	}
}

func TestResourceDefinitions(t *testing.T) {
	h := NewHandler(&fakeSource{})
	if h.StatusResource().URI != StatusURI {
		t.Errorf("status URI = %q", h.StatusResource().URI)
	}
	if h.ProfileResource().URI != ProfileURI {
		t.Errorf("profile URI = %q", h.ProfileResource().URI)
	}
}
