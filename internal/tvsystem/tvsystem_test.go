package tvsystem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFileIOChannelList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "channels.txt")
	if err := os.WriteFile(path, []byte("NPO 1\n\n  Ziggo Sport  \nRTL 4\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	io := NewFileIO(path, "", zap.NewNop())
	channels, err := io.ChannelList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"NPO 1", "Ziggo Sport", "RTL 4"}
	if !reflect.DeepEqual(channels, want) {
		t.Fatalf("got %v, want %v", channels, want)
	}
}

func TestFileIOChannelListMissingFile(t *testing.T) {
	io := NewFileIO(filepath.Join(t.TempDir(), "nope.txt"), "", zap.NewNop())
	if _, err := io.ChannelList(context.Background()); err == nil {
		t.Fatalf("expected error for missing channel file")
	}
}

func TestFileIOWriteDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.xml")
	io := NewFileIO("", path, zap.NewNop())

	if err := io.WriteDocument([]byte("<tv/>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "<tv/>" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestFixedChannels(t *testing.T) {
	io := NewFixedChannels([]string{" NPO 1 ", "RTL 4"}, "", zap.NewNop())
	channels, err := io.ChannelList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(channels, []string{"NPO 1", "RTL 4"}) {
		t.Fatalf("unexpected channels: %v", channels)
	}
}

func tvhFromURL(t *testing.T, rawURL, username, password string) *TVHeadend {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return NewTVHeadend(u.Hostname(), port, username, password, "", zap.NewNop())
}

func TestTVHeadendChannelListBasicAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "hts" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"entries": [{"key": "a", "val": "NPO 1"}, {"key": "b", "val": "RTL 4"}]}`))
	}))
	defer ts.Close()

	io := tvhFromURL(t, ts.URL, "hts", "secret")
	channels, err := io.ChannelList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(channels, []string{"NPO 1", "RTL 4"}) {
		t.Fatalf("unexpected channels: %v", channels)
	}
}

func TestTVHeadendChannelListDigestFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Digest ") {
			w.Header().Set("Www-Authenticate", `Digest realm="tvheadend", nonce="abc123", qop="auth"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"entries": [{"val": "NPO 1"}]}`))
	}))
	defer ts.Close()

	io := tvhFromURL(t, ts.URL, "hts", "secret")
	channels, err := io.ChannelList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(channels, []string{"NPO 1"}) {
		t.Fatalf("unexpected channels: %v", channels)
	}
}

func TestTVHeadendChannelListBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	io := tvhFromURL(t, ts.URL, "", "")
	if _, err := io.ChannelList(context.Background()); err == nil {
		t.Fatalf("expected error for status 500")
	}
}

func TestParseDigestChallenge(t *testing.T) {
	params := parseDigestChallenge(`Digest realm="tvheadend", nonce="abc123", qop="auth", opaque="xyz"`)
	if params["realm"] != "tvheadend" || params["nonce"] != "abc123" || params["opaque"] != "xyz" {
		t.Fatalf("unexpected params: %v", params)
	}
}
