package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"starconnect-back/internal/model"
)

const contentIndexName = "content"

// SearchRepository mirrors published content into Elasticsearch, the
// relational rows stay the source of truth.
type SearchRepository struct {
	es *elasticsearch.Client
}

func NewSearchRepository(es *elasticsearch.Client) *SearchRepository {
	return &SearchRepository{es: es}
}

func (r *SearchRepository) EnsureIndex(ctx context.Context) (err error) {
	exists, err := r.es.Indices.Exists([]string{contentIndexName}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index existence: %w", err)
	}

	defer func() {
		if cErr := exists.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if exists.StatusCode == http.StatusOK {
		return nil
	}

	if exists.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status on exists: %s", exists.Status())
	}

	mapping := `{
		"mappings": {
			"properties": {
				"user_id":      { "type": "keyword" },
				"title":        { "type": "text", "analyzer": "english" },
				"slug":         { "type": "keyword" },
				"excerpt":      { "type": "text", "analyzer": "english" },
				"body":         { "type": "text", "analyzer": "english" },
				"published_at": { "type": "date" }
			}
		}
	}`

	res, err := r.es.Indices.Create(contentIndexName, r.es.Indices.Create.WithBody(strings.NewReader(mapping)), r.es.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.IsError() {
		return fmt.Errorf("index creation failed: %s", res.String())
	}

	_, err = r.es.Cluster.Health(
		r.es.Cluster.Health.WithContext(ctx),
		r.es.Cluster.Health.WithWaitForStatus("yellow"),
		r.es.Cluster.Health.WithTimeout(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

func (r *SearchRepository) IndexContent(ctx context.Context, doc *model.ContentDocument) (err error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := r.es.Index(
		contentIndexName,
		bytes.NewReader(data),
		r.es.Index.WithDocumentID(doc.ID),
		r.es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.IsError() {
		return fmt.Errorf("failed to index document: %s", res.String())
	}

	return nil
}

// RemoveContent is called on unpublish and delete; a 404 is fine, the item
// may never have been indexed.
func (r *SearchRepository) RemoveContent(ctx context.Context, id string) (err error) {
	res, err := r.es.Delete(contentIndexName, id, r.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}

	if res.IsError() {
		return fmt.Errorf("failed to delete document: %s", res.String())
	}

	return nil
}

// Search runs a multi_match over a single creator's published content.
func (r *SearchRepository) Search(ctx context.Context, userID, query string, size int) (hits []model.ContentSearchHit, err error) {
	type bodyT struct {
		Query struct {
			Bool struct {
				Must []any `json:"must"`
			} `json:"bool"`
		} `json:"query"`
		Size int `json:"size,omitempty"`
	}

	body := bodyT{Size: size}
	body.Query.Bool.Must = []any{
		map[string]any{"term": map[string]any{"user_id": userID}},
		map[string]any{"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"title^3", "excerpt^2", "body"},
		}},
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(contentIndexName),
		r.es.Search.WithBody(buf),
	)
	if err != nil {
		return nil, err
	}

	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close response body: %w", err, cErr)
		}
	}()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Score  float64               `json:"_score"`
				Source model.ContentDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := make([]model.ContentSearchHit, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		out = append(out, model.ContentSearchHit{
			ID:      hit.Source.ID,
			Title:   hit.Source.Title,
			Slug:    hit.Source.Slug,
			Excerpt: hit.Source.Excerpt,
			Score:   hit.Score,
		})
	}

	return out, nil
}
