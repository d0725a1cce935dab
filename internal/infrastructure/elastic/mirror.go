package elastic

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Hammad55553/account-service/internal/domain/entity"
)

// Mirror replicates public account fields into an Elasticsearch index.
// It is a best-effort side channel: callers log and swallow its errors.
type Mirror struct {
	Client *elasticsearch.Client
	Index  string
}

func NewMirror(client *elasticsearch.Client, index string) *Mirror {
	return &Mirror{Client: client, Index: index}
}

// Upsert indexes the account's public view. Password hash and the reset pair
// are never written to the mirror.
func (m *Mirror) Upsert(ctx context.Context, a *entity.Account) error {
	doc := map[string]any{
		"id":         a.ID,
		"email":      a.Email,
		"name":       a.Name,
		"phone":      a.Phone,
		"avatar_url": a.AvatarURL,
		"is_active":  a.IsActive,
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": a.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: m.Index, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, m.Client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return &esError{status: res.Status()}
	}
	return nil
}

// Search performs a simple multi_match over email and name.
func (m *Mirror) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := m.Client.Search(
		m.Client.Search.WithContext(c),
		m.Client.Search.WithIndex(m.Index),
		m.Client.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

type esError struct {
	status string
}

func (e *esError) Error() string { return "elasticsearch: " + e.status }
