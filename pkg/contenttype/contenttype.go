// Package contenttype classifies HTTP content-type header values into the
// broad categories the analysis pipeline cares about. Schema inference only
// runs on JSON bodies, and binary payloads captured alongside API traffic
// (images, archives, PDFs) are dropped at ingestion time.
package contenttype

import (
	"mime"
	"strings"
	"unicode/utf8"
)

// Category is a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	XML    Category = "xml"
	HTML   Category = "html"
	YAML   Category = "yaml"
	Form   Category = "form"
	Text   Category = "text"
	Binary Category = "binary"
)

// Classify returns the broad category for a content-type header value.
// Parameters (charset, boundary) are stripped via mime.ParseMediaType;
// malformed values fall back to a lowercase prefix match. An empty value
// classifies as Binary.
func Classify(contentType string) Category {
	if contentType == "" {
		return Binary
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case strings.Contains(mediaType, "json"):
		// Covers application/json and vendor types like
		// application/vnd.api+json.
		return JSON
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.Contains(mediaType, "yaml"):
		return YAML
	case mediaType == "application/x-www-form-urlencoded":
		return Form
	case strings.HasPrefix(mediaType, "text/") || strings.Contains(mediaType, "javascript"):
		return Text
	}
	return Binary
}

// IsJSON reports whether the content type indicates a JSON body.
func IsJSON(contentType string) bool {
	return Classify(contentType) == JSON
}

// IsBinary reports whether a response body should be treated as opaque
// binary data. When the content type is empty or unrecognized the body
// bytes themselves decide: invalid UTF-8 means binary.
func IsBinary(contentType string, body []byte) bool {
	if contentType != "" {
		switch Classify(contentType) {
		case JSON, XML, HTML, YAML, Form, Text:
			return false
		}
		ct := strings.ToLower(contentType)
		if strings.HasPrefix(ct, "image/") ||
			strings.HasPrefix(ct, "audio/") ||
			strings.HasPrefix(ct, "video/") ||
			strings.Contains(ct, "octet-stream") ||
			strings.Contains(ct, "pdf") ||
			strings.Contains(ct, "gzip") ||
			strings.Contains(ct, "zip") {
			return true
		}
	}
	return !utf8.Valid(body)
}
