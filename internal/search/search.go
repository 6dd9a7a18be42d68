// Package search keeps products in an Elasticsearch index and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/techstore/internal/models"
)

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

func (i *Index) IndexProduct(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := i.ES.Index(
		i.Name,
		&buf,
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(p.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index product %s: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index product %s: %s: %s", p.ID, res.Status(), body)
	}
	return nil
}

func query(q string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^2", "description", "brand", "category"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"is_active": true}},
				},
			},
		},
		"from": from,
		"size": size,
	}
}

func (i *Index) Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query(q, from, size)); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		prods[n] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}
