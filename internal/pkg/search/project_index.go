package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
)

// ErrDisabled is returned by the no-op indexer so callers can fall back to
// database search
var ErrDisabled = errors.New("search backend not configured")

const projectMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"user_id":{"type":"keyword"},"title":{"type":"text"},"description":{"type":"text"},
	"technologies":{"type":"text","fields":{"raw":{"type":"keyword"}}},"updated_at":{"type":"date"}
}}}`

// ProjectIndexer keeps the project search index in sync and queries it
type ProjectIndexer interface {
	Enabled() bool
	EnsureIndex(ctx context.Context) error
	Index(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, projectID int64) error
	// Search returns matching project ids in relevance order and the total hit count
	Search(ctx context.Context, q string, offset, limit int) ([]int64, int64, error)
	Reindex(ctx context.Context, projects []models.Project) (int, error)
}

// projectDocument is the indexed shape of a project
type projectDocument struct {
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toDocument(p *models.Project) projectDocument {
	return projectDocument{
		UserID:       strconv.FormatInt(p.UserID, 10),
		Title:        p.Title,
		Description:  p.Description,
		Technologies: p.Technologies,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ElasticProjectIndexer implements ProjectIndexer on Elasticsearch
type ElasticProjectIndexer struct {
	client *es.Client
	index  string
	logger zerolog.Logger
}

// NewProjectIndexer connects to Elasticsearch, or returns a no-op indexer
// when url is empty
func NewProjectIndexer(url, index string, logger zerolog.Logger) (ProjectIndexer, error) {
	if strings.TrimSpace(url) == "" {
		return NoopProjectIndexer{}, nil
	}
	client, err := es.NewClient(es.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return NewElasticProjectIndexer(client, index, logger), nil
}

// NewElasticProjectIndexer wraps an existing client
func NewElasticProjectIndexer(client *es.Client, index string, logger zerolog.Logger) *ElasticProjectIndexer {
	return &ElasticProjectIndexer{
		client: client,
		index:  index,
		logger: logger.With().Str("component", "project_index").Str("index", index).Logger(),
	}
}

func (i *ElasticProjectIndexer) Enabled() bool { return true }

// EnsureIndex creates the index with its mapping when it does not exist
func (i *ElasticProjectIndexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.client.Indices.Exists([]string{i.index}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := i.client.Indices.Create(i.index,
		i.client.Indices.Create.WithBody(strings.NewReader(projectMapping)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, res.String())
	}
	i.logger.Info().Msg("Created project search index")
	return nil
}

// Index upserts one project document
func (i *ElasticProjectIndexer) Index(ctx context.Context, p *models.Project) error {
	body, err := json.Marshal(toDocument(p))
	if err != nil {
		return err
	}
	res, err := i.client.Index(i.index, bytes.NewReader(body),
		i.client.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index project %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index project %d: %s", p.ID, res.String())
	}
	return nil
}

// Delete removes a project document; a missing document is not an error
func (i *ElasticProjectIndexer) Delete(ctx context.Context, projectID int64) error {
	res, err := i.client.Delete(i.index, strconv.FormatInt(projectID, 10), i.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete project %d: %w", projectID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete project %d: %s", projectID, res.String())
	}
	return nil
}

// BuildSearchQuery renders the multi_match request body
func BuildSearchQuery(q string, offset, limit int) map[string]interface{} {
	return map[string]interface{}{
		"from":    offset,
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q,
				"fields":    []string{"title^3", "technologies^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// ParseSearchResponse extracts project ids and the total from a search body
func ParseSearchResponse(r io.Reader) ([]int64, int64, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]int64, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, sr.Hits.Total.Value, nil
}

// Search implements ProjectIndexer
func (i *ElasticProjectIndexer) Search(ctx context.Context, q string, offset, limit int) ([]int64, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildSearchQuery(q, offset, limit)); err != nil {
		return nil, 0, err
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(&buf),
		i.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search projects: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search projects: %s", res.String())
	}
	return ParseSearchResponse(res.Body)
}

// Reindex bulk-indexes every given project and returns how many were flushed
func (i *ElasticProjectIndexer) Reindex(ctx context.Context, projects []models.Project) (int, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      i.index,
		Client:     i.client,
		NumWorkers: 2,
		FlushBytes: 1 << 20,
	})
	if err != nil {
		return 0, fmt.Errorf("create bulk indexer: %w", err)
	}

	for idx := range projects {
		p := &projects[idx]
		body, err := json.Marshal(toDocument(p))
		if err != nil {
			return 0, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: strconv.FormatInt(p.ID, 10),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				ev := i.logger.Warn().Str("documentID", item.DocumentID)
				if err != nil {
					ev = ev.Err(err)
				} else {
					ev = ev.Str("reason", res.Error.Reason)
				}
				ev.Msg("Failed to reindex project")
			},
		})
		if err != nil {
			return 0, fmt.Errorf("queue project %d: %w", p.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("flush bulk indexer: %w", err)
	}
	stats := bi.Stats()
	i.logger.Info().Uint64("flushed", stats.NumFlushed).Uint64("failed", stats.NumFailed).Msg("Project reindex finished")
	return int(stats.NumFlushed), nil
}

// NoopProjectIndexer is used when Elasticsearch is not configured
type NoopProjectIndexer struct{}

func (NoopProjectIndexer) Enabled() bool { return false }
func (NoopProjectIndexer) EnsureIndex(context.Context) error { return nil }
func (NoopProjectIndexer) Index(context.Context, *models.Project) error { return nil }
func (NoopProjectIndexer) Delete(context.Context, int64) error { return nil }
func (NoopProjectIndexer) Reindex(context.Context, []models.Project) (int, error) { return 0, nil }

func (NoopProjectIndexer) Search(context.Context, string, int, int) ([]int64, int64, error) {
	return nil, 0, ErrDisabled
}
