package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"KidLearn/internal/models"
	custom_json "KidLearn/pkg/custom_serializer/json"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

// CourseSearchRepo indexes approved courses. Documents carry only the
// searchable fields; hits are resolved back to courses by id.
type CourseSearchRepo struct {
	client *elasticsearch.Client
	index  string
	json   *custom_json.JSONSerializer
}

func NewCourseSearchRepository(client *elasticsearch.Client, index string) *CourseSearchRepo {
	if index == "" {
		index = CourseIndex
	}
	return &CourseSearchRepo{client: client, index: index, json: custom_json.New()}
}

type courseDocument struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Tags               []string `json:"tags"`
	LearningObjectives []string `json:"learning_objectives"`
	AgeGroup           string   `json:"age_group"`
}

func newCourseDocument(c models.Course) courseDocument {
	return courseDocument{
		Title:              c.Title,
		Description:        c.Description,
		Tags:               c.Tags,
		LearningObjectives: c.LearningObjectives,
		AgeGroup:           string(c.AgeGroup),
	}
}

func (r *CourseSearchRepo) CreateIndexIfNotExist(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{r.index}}
	existsRes, err := existsReq.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusNotFound {
		text := map[string]any{
			"type":            "text",
			"analyzer":        "edge_ngram_analyzer",
			"search_analyzer": "standard",
		}
		mapping := map[string]any{
			"settings": map[string]any{
				"analysis": map[string]any{
					"analyzer": map[string]any{
						"edge_ngram_analyzer": map[string]any{
							"tokenizer": "edge_ngram_tokenizer",
							"filter":    []string{"lowercase"},
						},
					},
					"normalizer": map[string]any{
						"lowercase": map[string]any{"type": "custom", "filter": []string{"lowercase"}},
					},
					"tokenizer": map[string]any{
						"edge_ngram_tokenizer": map[string]any{
							"type":        "edge_ngram",
							"min_gram":    2,
							"max_gram":    20,
							"token_chars": []string{"letter", "digit"},
						},
					},
				},
			},
			"mappings": map[string]any{
				"properties": map[string]any{
					"title":               text,
					"description":         text,
					"learning_objectives": text,
					"tags":                map[string]any{"type": "keyword", "normalizer": "lowercase"},
					"age_group":           map[string]any{"type": "keyword"},
				},
			},
		}

		body, err := r.json.Marshal(mapping)
		if err != nil {
			return fmt.Errorf("marshal mapping: %w", err)
		}
		req := esapi.IndicesCreateRequest{Index: r.index, Body: bytes.NewReader(body)}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("mapping creation failed: %s", res.String())
		}
		return nil
	}

	if existsRes.StatusCode >= 300 {
		return fmt.Errorf("index existence check failed with status code %d", existsRes.StatusCode)
	}
	return nil
}

// Index creates or replaces the course document.
func (r *CourseSearchRepo) Index(ctx context.Context, course models.Course) error {
	data, err := r.json.Marshal(newCourseDocument(course))
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: course.ID.String(),
		Refresh:    "true",
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

// Delete removes the course document. A document that was never indexed is
// not an error.
func (r *CourseSearchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	req := esapi.DeleteRequest{
		Index:      r.index,
		DocumentID: id.String(),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

func (r *CourseSearchRepo) Search(ctx context.Context, query string, size int) ([]uuid.UUID, error) {
	if size <= 0 {
		size = 10
	}
	body, err := r.json.Marshal(searchQuery(query, size))
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search error: %s", string(bodyBytes))
	}
	return r.decodeHits(res.Body)
}

func searchQuery(query string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query":     query,
							"fields":    []string{"title^3", "description", "learning_objectives"},
							"type":      "best_fields",
							"fuzziness": "AUTO",
							"operator":  "or",
						},
					},
					map[string]any{
						"term": map[string]any{"tags": map[string]any{"value": query, "boost": 2}},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"size":    size,
		"_source": false,
	}
}

func (r *CourseSearchRepo) decodeHits(body io.Reader) ([]uuid.UUID, error) {
	var esRes struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := r.json.Decode(body, &esRes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(esRes.Hits.Hits))
	for _, h := range esRes.Hits.Hits {
		if id, err := uuid.Parse(h.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
