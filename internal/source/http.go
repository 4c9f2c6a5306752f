package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

const maxErrorBody = 512

// HTTPSource reads listings from a JSON endpoint. The body is either an array
// of flat objects or an envelope with the array under "data".
type HTTPSource struct {
	client  *http.Client
	url     string
	decoder RecordDecoder
}

// NewHTTPSource builds an HTTP source. With a nil client it tries an ID token
// client for the endpoint and falls back to a plain client with a timeout.
func NewHTTPSource(client *http.Client, listingsURL string, decoder RecordDecoder) *HTTPSource {
	if listingsURL == "" {
		panic("listingsURL must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), listingsURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &HTTPSource{client: client, url: listingsURL, decoder: decoder}
}

func (s *HTTPSource) Name() string { return "http" }

// Fetch downloads and decodes the listing snapshot.
func (s *HTTPSource) Fetch(ctx context.Context) ([]entity.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create listings request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrSourceUnavailable, resp.StatusCode, extractError(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrSourceUnavailable, err)
	}
	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	listings := make([]entity.Listing, 0, len(records))
	for _, record := range records {
		listings = append(listings, s.decoder.Decode(record))
	}
	return listings, nil
}

// decodeRecords accepts a bare array or {"data": [...]}. Elements that are not
// objects are skipped.
func decodeRecords(body []byte) ([]map[string]string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []map[string]string{}, nil
	}

	var items []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode listings array: %w", err)
		}
	case '{':
		var envelope struct {
			Data  []json.RawMessage `json:"data"`
			Error string            `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("decode listings envelope: %w", err)
		}
		if envelope.Error != "" {
			return nil, fmt.Errorf("listings endpoint error: %s", envelope.Error)
		}
		items = envelope.Data
	default:
		return nil, fmt.Errorf("unexpected listings payload")
	}

	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil || obj == nil {
			continue
		}
		record := make(map[string]string, len(obj))
		for key, value := range obj {
			record[key] = stringify(value)
		}
		records = append(records, record)
	}
	return records, nil
}

// stringify flattens a decoded JSON value. Arrays are joined with commas so
// image lists survive; objects are re-encoded with sorted keys.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s := strings.TrimSpace(stringify(elem)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return "listings endpoint returned an error"
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

var _ Source = (*HTTPSource)(nil)
