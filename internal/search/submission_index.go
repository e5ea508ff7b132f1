package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sopatech/wavedesk/internal/infra"
)

// SubmissionDoc is the document stored in the submission index (refs only;
// full submission data lives in DynamoDB).
type SubmissionDoc struct {
	SubmissionID string `json:"submission_id"`
	Title        string `json:"title"`
	ArtistID     string `json:"artist_id"`
	ArtistName   string `json:"artist_name,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// SubmissionIndex indexes submission refs for the review queue search.
type SubmissionIndex struct {
	os    *infra.OpenSearch
	index string
}

// NewSubmissionIndex returns a SubmissionIndex for the given OpenSearch client and index name.
func NewSubmissionIndex(os *infra.OpenSearch, indexName string) *SubmissionIndex {
	if indexName == "" {
		indexName = "wavedesk-submissions"
	}
	return &SubmissionIndex{os: os, index: indexName}
}

// EnsureIndex creates the index with text/keyword mappings if it does not exist.
func (f *SubmissionIndex) EnsureIndex(ctx context.Context) error {
	url := f.os.BaseURL + "/" + f.index
	head, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.os.DoWithRetry(ctx, head)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"submission_id": map[string]string{"type": "keyword"},
				"title":         map[string]string{"type": "text"},
				"artist_id":     map[string]string{"type": "keyword"},
				"artist_name":   map[string]string{"type": "text"},
				"status":        map[string]string{"type": "keyword"},
				"created_at":    map[string]string{"type": "date"},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	put, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	put.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil }
	put.Header.Set("Content-Type", "application/json")
	resp, err = f.os.DoWithRetry(ctx, put)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch create index: %d %s", resp.StatusCode, string(b))
	}
	return nil
}

// IndexSubmission indexes or updates a submission ref. Document ID = submission_id for idempotent upsert.
func (f *SubmissionIndex) IndexSubmission(ctx context.Context, doc SubmissionDoc) error {
	if doc.SubmissionID == "" {
		return fmt.Errorf("submission_id required")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	// refresh=wait_for so the document is searchable when the call returns (avoids flaky tests and eventual consistency)
	url := f.os.BaseURL + "/" + f.index + "/_doc/" + doc.SubmissionID + "?refresh=wait_for"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil }
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.os.DoWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch index: %d %s", resp.StatusCode, string(b))
	}
	return nil
}

// DeleteSubmission removes the submission ref from the index.
func (f *SubmissionIndex) DeleteSubmission(ctx context.Context, submissionID string) error {
	if submissionID == "" {
		return fmt.Errorf("submission_id required")
	}
	url := f.os.BaseURL + "/" + f.index + "/_doc/" + submissionID
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.os.DoWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// 404 is ok (already deleted)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch delete: %d %s", resp.StatusCode, string(b))
	}
	return nil
}

// Query restricts a search. Empty Text matches everything in scope; empty
// ArtistID searches all artists (manager scope); empty Status matches all.
type Query struct {
	Text     string
	ArtistID string
	Status   string
	Size     int
	From     int
}

// Hit is a single result from the submission index.
type Hit struct {
	SubmissionID string `json:"submission_id"`
	Title        string `json:"title"`
	ArtistName   string `json:"artist_name"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// Search returns submission refs matching q, newest first.
func (f *SubmissionIndex) Search(ctx context.Context, q Query) ([]Hit, error) {
	if q.Size <= 0 {
		q.Size = 20
	}
	if q.From < 0 {
		q.From = 0
	}

	must := []map[string]any{}
	if q.Text != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Text,
				"fields": []string{"title", "artist_name"},
			},
		})
	}
	filter := []map[string]any{}
	if q.ArtistID != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"artist_id": q.ArtistID}})
	}
	if q.Status != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"status": q.Status}})
	}
	query := map[string]any{"bool": map[string]any{"must": must, "filter": filter}}

	body := map[string]any{
		"query":            query,
		"sort":             []map[string]any{{"created_at": map[string]string{"order": "desc"}}},
		"size":             q.Size,
		"from":             q.From,
		"track_total_hits": true,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := f.os.BaseURL + "/" + f.index + "/_search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(payload)), nil }
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.os.DoWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("opensearch search: %d %s", resp.StatusCode, string(b))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source Hit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
