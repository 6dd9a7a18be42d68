package es

import (
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
)

type Config struct {
	URL      string
	User     string
	Password string
}

// NewClient connects and verifies the cluster answers Info.
func NewClient(cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: %s: %s", res.Status(), body)
	}

	return client, nil
}
