package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jvtipil/unfolde/utils"
)

// Forwarder mirrors tracked events to an external Umami instance. It is
// best-effort: failures are logged at debug and never affect the caller.
type Forwarder struct {
	endpoint  string
	websiteID string
	client    *http.Client
}

// NewForwarder returns nil when no Umami endpoint is configured; a nil
// Forwarder is safe to call.
func NewForwarder(umamiURL, websiteID string) *Forwarder {
	if umamiURL == "" || websiteID == "" {
		return nil
	}
	return &Forwarder{
		endpoint:  umamiURL + "/api/send",
		websiteID: websiteID,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type umamiPayload struct {
	Website  string `json:"website"`
	URL      string `json:"url"`
	Referrer string `json:"referrer"`
	Hostname string `json:"hostname"`
}

type umamiEvent struct {
	Type    string       `json:"type"`
	Payload umamiPayload `json:"payload"`
}

// Send posts one pageview event. The visitor's User-Agent is passed through
// so Umami attributes the hit to the real client, not to this server.
func (f *Forwarder) Send(ctx context.Context, path, referrer, hostname, userAgent string) {
	if f == nil {
		return
	}
	body, err := json.Marshal(umamiEvent{
		Type: "event",
		Payload: umamiPayload{
			Website:  f.websiteID,
			URL:      path,
			Referrer: referrer,
			Hostname: hostname,
		},
	})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Debugf("umami forward failed: %v", err)
		}
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 && utils.Sugar != nil {
		utils.Sugar.Debugf("umami forward rejected: status=%d", resp.StatusCode)
	}
}
