package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// Web UI ports worth probing; the last three are TLS-only.
var (
	httpPorts  = []int{80, 8080, 8880}
	httpsPorts = []int{443, 8443, 8843}

	// Extra paths tried on the UniFi controller ports.
	unifiPaths = []string{"/manage", "/network", "/login", "/api/auth/login"}
	unifiPorts = map[int]bool{443: true, 8443: true}

	// Model literals a UniFi body may carry verbatim.
	unifiModels = []string{"UDM-Pro-Max", "UDMPMAX", "UDM-SE"}
)

// nasFamilies maps a family token to the body keywords that identify it.
// A hit synthesizes X-Content-Contains-<Family>=true.
var nasFamilies = map[string][]string{
	"Synology":    {"synology", "diskstation", "dsm"},
	"QNAP":        {"qnap", "qts", "nas"},
	"Unraid":      {"unraid", "lime technology"},
	"TrueNAS":     {"truenas", "freenas"},
	"WD_MyCloud":  {"wd my cloud", "mycloud", "western digital"},
	"Asustor":     {"asustor", "asus nas"},
	"TerraMaster": {"terramaster", "tnas"},
}

var (
	titleRe     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	loginTokens = []string{"login", "signin", "admin", "password", "username"}
)

const maxBodyBytes = 512 * 1024

// HTTP probes the web UI ports of a host. Response headers from every
// answering port are merged into one map, together with the synthesized
// X-Content-*, X-Page-Title and X-Has-Login-Form pseudo-headers derived
// from the served bodies. Hosts without a web UI yield an empty map.
func (s *Set) HTTP(ctx context.Context, ip string) map[string]string {
	start := time.Now()
	defer func() {
		telemetry.ProbeDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
	}()

	merged := make(map[string]string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	probePort := func(port int, secure bool) {
		defer wg.Done()
		headers := s.probeHTTPPort(ctx, ip, port, secure)
		if len(headers) == 0 {
			return
		}
		mu.Lock()
		for k, v := range headers {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		mu.Unlock()
	}

	for _, port := range httpPorts {
		wg.Add(1)
		go probePort(port, false)
	}
	for _, port := range httpsPorts {
		wg.Add(1)
		go probePort(port, true)
	}
	wg.Wait()

	if len(merged) > 0 {
		s.log.Debug().Str("ip", ip).Int("headers", len(merged)).Msg("http probe done")
	}
	return merged
}

// probeHTTPPort issues HEAD then GET on /, merging both responses, then
// scans the body. The UniFi controller ports additionally get the known
// console paths.
func (s *Set) probeHTTPPort(ctx context.Context, ip string, port int, secure bool) map[string]string {
	base := fmt.Sprintf("http://%s:%d", ip, port)
	if secure {
		base = fmt.Sprintf("https://%s:%d", ip, port)
	}

	headers := make(map[string]string)

	// HEAD never follows redirects; GET does, so a device that bounces
	// to its login page still yields content.
	if resp := s.doRequest(ctx, http.MethodHead, base+"/", false); resp != nil {
		copyHeaders(headers, resp.Header)
		resp.Body.Close()
	}

	resp := s.doRequest(ctx, http.MethodGet, base+"/", true)
	if resp == nil && len(headers) == 0 {
		return nil
	}
	if resp != nil {
		copyHeaders(headers, resp.Header)
		if contentBearing(resp.StatusCode) {
			body := readBody(resp.Body)
			s.scanBody(headers, body)
		}
		resp.Body.Close()
	}

	if unifiPorts[port] {
		s.probeUniFiPaths(ctx, base, headers)
	}
	return headers
}

func (s *Set) probeUniFiPaths(ctx context.Context, base string, headers map[string]string) {
	for _, path := range unifiPaths {
		resp := s.doRequest(ctx, http.MethodGet, base+path, true)
		if resp == nil {
			continue
		}
		if !contentBearing(resp.StatusCode) {
			resp.Body.Close()
			continue
		}
		body := readBody(resp.Body)
		resp.Body.Close()

		if strings.Contains(body, "unifi") || strings.Contains(body, "ubiquiti") {
			headers["X-Content-Contains-UniFi"] = "true"
			for _, model := range unifiModels {
				if strings.Contains(body, strings.ToLower(model)) {
					headers["X-Content-Contains-Model"] = model
					break
				}
			}
			return
		}
	}
}

// scanBody synthesizes evidence headers from a lowercased response body.
func (s *Set) scanBody(headers map[string]string, body string) {
	if body == "" {
		return
	}

	for family, keywords := range nasFamilies {
		for _, kw := range keywords {
			if strings.Contains(body, kw) {
				headers["X-Content-Contains-"+family] = "true"
				break
			}
		}
	}

	for sigID, indicators := range s.indicators {
		for _, indicator := range indicators {
			if strings.Contains(body, strings.ToLower(indicator)) {
				headers["X-Content-Indicator-"+sigID] = "true"
				break
			}
		}
	}

	if m := titleRe.FindStringSubmatch(body); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			headers["X-Page-Title"] = title
		}
	}

	for _, token := range loginTokens {
		if strings.Contains(body, token) {
			headers["X-Has-Login-Form"] = "true"
			break
		}
	}
}

// doRequest performs one request, returning nil on any failure. TLS
// verification is off: device UIs ship self-signed certificates.
func (s *Set) doRequest(ctx context.Context, method, url string, followRedirects bool) *http.Response {
	client := &http.Client{
		Timeout: s.deadline(),
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		},
	}
	if !followRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	return resp
}

// contentBearing reports whether the status code carries a useful body:
// success, the controller login redirect, or an auth challenge page.
func contentBearing(status int) bool {
	return status == http.StatusOK ||
		status == http.StatusFound ||
		status == http.StatusUnauthorized
}

func copyHeaders(dst map[string]string, src http.Header) {
	for name, values := range src {
		if len(values) == 0 {
			continue
		}
		if _, exists := dst[name]; !exists {
			dst[name] = values[0]
		}
	}
}

func readBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil && len(data) == 0 {
		return ""
	}
	return strings.ToLower(string(data))
}
