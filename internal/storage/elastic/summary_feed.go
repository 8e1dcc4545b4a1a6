package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SummaryFeedRepo publishes course progress summaries so reporting can query
// them without touching the engine's tables.
type SummaryFeedRepo struct {
	client *elasticsearch.Client
	index  string
}

func NewSummaryFeedRepository(client *elasticsearch.Client, index string) *SummaryFeedRepo {
	return &SummaryFeedRepo{client: client, index: index}
}

func (r *SummaryFeedRepo) CreateIndexIfNotExist(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{r.index}}
	existsRes, err := existsReq.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == 404 {
		mapping := map[string]interface{}{
			"mappings": map[string]interface{}{
				"properties": map[string]interface{}{
					"learner_id":         map[string]interface{}{"type": "keyword"},
					"course_id":          map[string]interface{}{"type": "keyword"},
					"completion_percent": map[string]interface{}{"type": "integer"},
					"is_complete":        map[string]interface{}{"type": "boolean"},
					"completed_at":       map[string]interface{}{"type": "date"},
				},
			},
		}

		body, _ := json.Marshal(mapping)
		req := esapi.IndicesCreateRequest{Index: r.index, Body: bytes.NewReader(body)}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("mapping creation failed: %s", res.String())
		}
	}

	if existsRes.StatusCode >= 300 && existsRes.StatusCode != 404 {
		return fmt.Errorf("index existence check failed with status code %d", existsRes.StatusCode)
	}

	return nil
}

func (r *SummaryFeedRepo) Index(ctx context.Context, summary models.CourseProgressSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: summary.LearnerID.String() + ":" + summary.CourseID.String(),
		Body:       bytes.NewReader(data),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}
