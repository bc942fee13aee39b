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

var defaultAnalysisTypes = []string{"title", "contract", "cross_document"}

// StartAnalysis queues an AI analysis job for a property.
func (c *Client) StartAnalysis(ctx context.Context, sess session.Session, propertyID string, analysisTypes []string) (model.AnalysisStarted, error) {
	if len(analysisTypes) == 0 {
		analysisTypes = defaultAnalysisTypes
	}

	body, err := json.Marshal(model.AnalysisInput{
		PropertyID:     propertyID,
		AnalysisTypes:  analysisTypes,
		GenerateReport: true,
	})
	if err != nil {
		return model.AnalysisStarted{}, err
	}

	var started model.AnalysisStarted
	err = c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/analysis/analyze",
		contentType: "application/json",
		body:        body,
	}, &started)
	return started, err
}

func (c *Client) AnalysisStatus(ctx context.Context, sess session.Session, jobID string) (model.AnalysisStatus, error) {
	var status model.AnalysisStatus
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/analysis/jobs/" + jobID}, &status)
	return status, err
}

func (c *Client) ListAnalysisJobs(ctx context.Context, sess session.Session, skip int, limit int) ([]model.AnalysisJob, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var jobs []model.AnalysisJob
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/analysis/jobs", query: query}, &jobs)
	return jobs, err
}

func (c *Client) AnalysisReport(ctx context.Context, sess session.Session, jobID string) (model.Report, error) {
	var report model.Report
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/analysis/jobs/" + jobID + "/report"}, &report)
	return report, err
}

// DownloadReport streams the generated PDF. The caller owns the body.
func (c *Client) DownloadReport(ctx context.Context, sess session.Session, jobID string) (*http.Response, error) {
	resp, err := c.exchange(ctx, sess, call{method: http.MethodGet, path: "/analysis/jobs/" + jobID + "/download"})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer drainClose(resp.Body)
		return nil, decodeError(resp)
	}

	return resp, nil
}

func (c *Client) RetryAnalysis(ctx context.Context, sess session.Session, jobID string) (model.AnalysisStarted, error) {
	var started model.AnalysisStarted
	err := c.do(ctx, sess, call{method: http.MethodPost, path: "/analysis/jobs/" + jobID + "/retry"}, &started)
	return started, err
}
