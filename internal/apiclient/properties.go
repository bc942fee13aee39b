package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
)

func (c *Client) ListProperties(ctx context.Context, sess session.Session, status string, skip int, limit int) ([]model.Property, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var properties []model.Property
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/properties/", query: query}, &properties)
	return properties, err
}

func (c *Client) GetProperty(ctx context.Context, sess session.Session, id string) (model.PropertyDetail, error) {
	var property model.PropertyDetail
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/properties/" + id}, &property)
	return property, err
}

func (c *Client) CreateProperty(ctx context.Context, sess session.Session, input model.PropertyInput) (model.Property, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return model.Property{}, err
	}

	var property model.Property
	err = c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/properties/",
		contentType: "application/json",
		body:        body,
	}, &property)
	return property, err
}

func (c *Client) UpdateProperty(ctx context.Context, sess session.Session, id string, input model.PropertyInput) (model.Property, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return model.Property{}, err
	}

	var property model.Property
	err = c.do(ctx, sess, call{
		method:      http.MethodPut,
		path:        "/properties/" + id,
		contentType: "application/json",
		body:        body,
	}, &property)
	return property, err
}

func (c *Client) DeleteProperty(ctx context.Context, sess session.Session, id string) error {
	return c.do(ctx, sess, call{method: http.MethodDelete, path: "/properties/" + id}, nil)
}

// TriggerPropertyAnalysis is the property-scoped analyze action: it consumes
// a credit and marks the property analyzing, but unlike StartAnalysis it does
// not return a job to follow.
func (c *Client) TriggerPropertyAnalysis(ctx context.Context, sess session.Session, id string) (model.PropertyAnalysisStarted, error) {
	var started model.PropertyAnalysisStarted
	err := c.do(ctx, sess, call{method: http.MethodPost, path: "/properties/" + id + "/analyze"}, &started)
	return started, err
}
