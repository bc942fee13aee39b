package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
)

func (c *Client) SemanticSearch(ctx context.Context, sess session.Session, input model.SearchInput) ([]model.SearchHit, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	var hits []model.SearchHit
	err = c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/rag/search",
		contentType: "application/json",
		body:        body,
	}, &hits)
	return hits, err
}

// QueryDocuments asks a natural-language question across indexed documents.
func (c *Client) QueryDocuments(ctx context.Context, sess session.Session, query string) (model.QueryAnswer, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return model.QueryAnswer{}, err
	}

	var answer model.QueryAnswer
	err = c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/rag/query",
		contentType: "application/json",
		body:        body,
	}, &answer)
	return answer, err
}

func (c *Client) IndexStats(ctx context.Context, sess session.Session) (model.IndexStats, error) {
	var stats model.IndexStats
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/rag/stats"}, &stats)
	return stats, err
}

// Health pings the backend. Used by the dashboard's own health endpoint so a
// load balancer can tell "dashboard up, backend down" apart from "all up".
func (c *Client) Health(ctx context.Context, sess session.Session) error {
	return c.do(ctx, sess, call{method: http.MethodGet, path: "/health"}, nil)
}
