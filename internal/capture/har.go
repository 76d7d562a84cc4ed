package capture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/usestring/trafficspec/pkg/contenttype"
	"github.com/usestring/trafficspec/pkg/types"
)

// HAR 1.2 structures, limited to the fields analysis consumes.
type harFile struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Entries []harEntry `json:"entries"`
}

type harEntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"`
	Request         harRequest  `json:"request"`
	Response        harResponse `json:"response"`
}

type harRequest struct {
	Method      string     `json:"method"`
	URL         string     `json:"url"`
	Headers     []harPair  `json:"headers"`
	QueryString []harPair  `json:"queryString"`
	PostData    *harPost   `json:"postData"`
}

type harResponse struct {
	Status  int         `json:"status"`
	Headers []harPair   `json:"headers"`
	Content *harContent `json:"content"`
}

type harPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harPost struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type harContent struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ParseHAR converts a HAR 1.2 archive into captured calls.
func ParseHAR(data []byte) ([]types.CapturedCall, error) {
	var har harFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("parsing HAR file: %w", err)
	}

	calls := make([]types.CapturedCall, 0, len(har.Log.Entries))
	for _, entry := range har.Log.Entries {
		call := types.CapturedCall{
			Request: types.CapturedRequest{
				URL:         entry.Request.URL,
				Method:      entry.Request.Method,
				Headers:     pairsToMap(entry.Request.Headers),
				QueryParams: pairsToMap(entry.Request.QueryString),
			},
			Response: types.CapturedResponse{
				StatusCode: entry.Response.Status,
				Headers:    pairsToMap(entry.Response.Headers),
			},
			DurationMs: entry.Time,
		}

		if entry.Request.PostData != nil {
			call.Request.Body = entry.Request.PostData.Text
		}
		if entry.Response.Content != nil {
			call.Response.ContentType = entry.Response.Content.MimeType
			// Browser HAR exports carry image and font assets alongside
			// API traffic. Their bodies are useless for schema inference.
			if !contenttype.IsBinary(entry.Response.Content.MimeType, []byte(entry.Response.Content.Text)) {
				call.Response.Body = entry.Response.Content.Text
			}
		}
		if ts, err := time.Parse(time.RFC3339, entry.StartedDateTime); err == nil {
			call.Request.TsMs = ts.UnixMilli()
		}

		calls = append(calls, call)
	}
	return calls, nil
}

func pairsToMap(pairs []harPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, ok := m[p.Name]; !ok {
			m[p.Name] = p.Value
		}
	}
	return m
}
