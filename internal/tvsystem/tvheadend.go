package tvsystem

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TVHeadend reads the channel list from a TVHeadend server and writes the
// generated document straight into its XMLTV grabber socket.
type TVHeadend struct {
	host       string
	port       int
	username   string
	password   string
	socketPath string
	httpClient *http.Client
	log        *zap.Logger
}

// NewTVHeadend creates a TVHeadend IO for the given server.
func NewTVHeadend(host string, port int, username, password, socketPath string, log *zap.Logger) *TVHeadend {
	return &TVHeadend{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		socketPath: socketPath,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// ChannelList fetches the channel names known to TVHeadend. Basic auth is
// tried first, digest auth on a 401 response, matching what TVHeadend accepts
// in its different auth configurations.
func (t *TVHeadend) ChannelList(ctx context.Context) ([]string, error) {
	t.log.Info("requesting known channel list from TVHeadend")

	url := fmt.Sprintf("http://%s:%d/api/channel/list", t.host, t.port)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(t.username, t.password)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not connect to TVHeadend on %s: %w", url, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		challenge := resp.Header.Get("Www-Authenticate")
		_ = resp.Body.Close()

		resp, err = t.digestGet(ctx, url, challenge)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting channel list from TVHeadend: status code %d", resp.StatusCode)
	}

	var channelData struct {
		Entries []struct {
			Val string `json:"val"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&channelData); err != nil {
		return nil, fmt.Errorf("error getting channel list from TVHeadend: invalid JSON: %w", err)
	}

	channels := make([]string, 0, len(channelData.Entries))
	for _, entry := range channelData.Entries {
		channels = append(channels, entry.Val)
	}
	return channels, nil
}

// WriteDocument sends the document to the TVHeadend XMLTV grabber socket.
func (t *TVHeadend) WriteDocument(data []byte) error {
	t.log.Info("writing XMLTV directly to TVHeadend", zap.String("socket", t.socketPath))

	conn, err := net.Dial("unix", t.socketPath)
	if err != nil {
		return fmt.Errorf("error writing XMLTV to %q, is TVHeadend running and is the XMLTV grabber enabled: %w",
			t.socketPath, err)
	}
	defer conn.Close()

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("error writing XMLTV to %q: %w", t.socketPath, err)
	}
	return nil
}

// digestGet retries the request with digest auth computed from the 401
// challenge. Only MD5 with qop=auth is supported, which is what TVHeadend
// issues.
func (t *TVHeadend) digestGet(ctx context.Context, url, challenge string) (*http.Response, error) {
	params := parseDigestChallenge(challenge)
	realm, nonce := params["realm"], params["nonce"]
	if realm == "" || nonce == "" {
		return nil, fmt.Errorf("TVHeadend rejected basic auth and sent no usable digest challenge")
	}

	cnonceBytes := make([]byte, 8)
	if _, err := rand.Read(cnonceBytes); err != nil {
		return nil, err
	}
	cnonce := hex.EncodeToString(cnonceBytes)

	ha1 := md5Hex(t.username + ":" + realm + ":" + t.password)
	ha2 := md5Hex("GET:/api/channel/list")
	response := md5Hex(strings.Join([]string{ha1, nonce, "00000001", cnonce, "auth", ha2}, ":"))

	auth := fmt.Sprintf(`Digest username=%q, realm=%q, nonce=%q, uri="/api/channel/list", `+
		`qop=auth, nc=00000001, cnonce=%q, response=%q`, t.username, realm, nonce, cnonce, response)
	if opaque := params["opaque"]; opaque != "" {
		auth += fmt.Sprintf(", opaque=%q", opaque)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", auth)
	return t.httpClient.Do(req)
}

func parseDigestChallenge(header string) map[string]string {
	params := make(map[string]string)

	header = strings.TrimPrefix(header, "Digest ")
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		params[strings.ToLower(key)] = strings.Trim(value, `"`)
	}
	return params
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
