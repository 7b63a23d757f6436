package elastic

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"KidLearn/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newRepo(t *testing.T, fn roundTripFunc) *CourseSearchRepo {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: fn,
	})
	require.NoError(t, err)
	return NewCourseSearchRepository(client, "")
}

func TestSearchReturnsHitIDs(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	var gotPath, gotBody string
	repo := newRepo(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		return respond(http.StatusOK, `{"hits":{"hits":[{"_id":"`+first.String()+`"},{"_id":"junk"},{"_id":"`+second.String()+`"}]}}`), nil
	})

	ids, err := repo.Search(context.Background(), "shapes", 5)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.Equal(t, "/courses/_search", gotPath)
	assert.Contains(t, gotBody, `"query":"shapes"`)
	assert.Contains(t, gotBody, `"size":5`)
}

func TestSearchError(t *testing.T) {
	repo := newRepo(t, func(*http.Request) (*http.Response, error) {
		return respond(http.StatusBadRequest, `{"error":"bad query"}`), nil
	})

	_, err := repo.Search(context.Background(), "x", 0)
	assert.ErrorContains(t, err, "bad query")
}

func TestDeleteMissingDocument(t *testing.T) {
	repo := newRepo(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodDelete, r.Method)
		return respond(http.StatusNotFound, `{"result":"not_found"}`), nil
	})

	assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
}

func TestIndexSendsDocument(t *testing.T) {
	course := models.Course{
		ID:       uuid.New(),
		Title:    "Shapes",
		AgeGroup: models.AgeGroupPreschool,
		Tags:     []string{"math"},
	}
	var gotPath, gotBody string
	repo := newRepo(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		return respond(http.StatusCreated, `{"result":"created"}`), nil
	})

	require.NoError(t, repo.Index(context.Background(), course))
	assert.Equal(t, "/courses/_doc/"+course.ID.String(), gotPath)
	assert.Contains(t, gotBody, `"title":"Shapes"`)
	assert.Contains(t, gotBody, `"age_group":"3-5"`)
	assert.Contains(t, gotBody, `"tags":["math"]`)
}
