package curse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	})
}

// --- headers ---

func TestClient_SendsAuthHeaders(t *testing.T) {
	t.Parallel()
	var gotKey, gotAgent, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"data":{"id":1,"name":"m"}}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Mod(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q, want test-key", gotKey)
	}
	if gotAgent != userAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, userAgent)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

// --- status mapping ---

func TestClient_StatusCodeMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		want   ErrorKind
	}{
		{401, KindUnauthorized},
		{403, KindForbidden},
		{404, KindNotFound},
		{429, KindRateLimited},
		{500, KindProtocol},
		{302, KindProtocol},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"error":"nope"}`)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Mod(context.Background(), 7)
			if !IsKind(err, tc.want) {
				t.Errorf("Mod() err = %v, want kind %v", err, tc.want)
			}
		})
	}
}

func TestClient_MalformedBodyIsProtocolError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Mod(context.Background(), 7)
	if !IsKind(err, KindProtocol) {
		t.Errorf("err = %v, want KindProtocol", err)
	}
}

func TestClient_ConnectionFailureIsTransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	_, err := newTestClient(srv.URL).Mod(context.Background(), 7)
	if !IsKind(err, KindTransport) {
		t.Errorf("err = %v, want KindTransport", err)
	}
}

func TestClient_ContextCancellationIsTransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).Mod(ctx, 7)
	if !IsKind(err, KindTransport) {
		t.Errorf("err = %v, want KindTransport", err)
	}
}

// --- ModFiles ---

func TestModFiles_FilterQueryParams(t *testing.T) {
	t.Parallel()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"data":[],"pagination":{"index":0,"pageSize":50,"resultCount":0,"totalCount":0}}`)
	}))
	defer srv.Close()

	files, err := newTestClient(srv.URL).ModFiles(context.Background(), 5, FileFilters{
		GameVersion: "1.21",
		ModLoader:   "forge",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want empty slice", files)
	}
	if gotQuery != "gameVersion=1.21&modLoaderType=forge" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestModFiles_EmptyListIsNotAnError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	files, err := newTestClient(srv.URL).ModFiles(context.Background(), 5, FileFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want zero files", files)
	}
}

func TestModFiles_DecodesRecords(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mods/5/files" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{
			"id": 6543210,
			"fileName": "pack-server.zip",
			"displayName": "Pack Server 1.2",
			"fileDate": "2024-05-01T12:00:00Z",
			"fileLength": 1048576,
			"downloadUrl": "https://edge.example/6543210/pack-server.zip",
			"isServerPack": true,
			"serverPackFileId": 0,
			"hashes": [{"value":"abc123","algo":1},{"value":"def456","algo":2}]
		}]}`)
	}))
	defer srv.Close()

	files, err := newTestClient(srv.URL).ModFiles(context.Background(), 5, FileFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("len(files) = %d", len(files))
	}

	f := files[0]
	if f.ID != 6543210 || f.FileName != "pack-server.zip" || !f.IsServerPack {
		t.Errorf("decoded file = %+v", f)
	}
	if f.FileLength != 1048576 {
		t.Errorf("FileLength = %d", f.FileLength)
	}
	sha, ok := f.SHA1()
	if !ok || sha != "abc123" {
		t.Errorf("SHA1() = (%q, %v), want (abc123, true)", sha, ok)
	}
}

// --- ModFile ---

func TestModFile_ResolvesSingleRecord(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mods/5/files/99" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":{"id":99,"fileName":"server.zip","isServerPack":true}}`)
	}))
	defer srv.Close()

	f, err := newTestClient(srv.URL).ModFile(context.Background(), 5, 99)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 99 || !f.IsServerPack {
		t.Errorf("file = %+v", f)
	}
}

// --- ValidateKey ---

func TestValidateKey(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/432" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"data":{"id":432,"name":"Minecraft"}}`)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).ValidateKey(context.Background(), 432); err != nil {
		t.Fatal(err)
	}
}

func TestValidateKey_RejectedKey(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).ValidateKey(context.Background(), 432)
	if !IsKind(err, KindUnauthorized) {
		t.Errorf("err = %v, want KindUnauthorized", err)
	}
}

// --- Download ---

func TestDownload_StreamsBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "artifact bytes")
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL).Download(context.Background(), srv.URL+"/pack.zip")
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "artifact bytes" {
		t.Errorf("body = %q", data)
	}
}

func TestDownload_Non200IsTypedError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Download(context.Background(), srv.URL+"/pack.zip")
	if !IsKind(err, KindForbidden) {
		t.Errorf("err = %v, want KindForbidden", err)
	}
}
