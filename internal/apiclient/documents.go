package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
)

// UploadDocument sends one file as multipart form data. The body is buffered
// so the identical request can be replayed after a token refresh; the backend
// caps uploads at 25MB, so buffering is bounded.
func (c *Client) UploadDocument(ctx context.Context, sess session.Session, propertyID string, documentType string, filename string, content io.Reader) (model.DocumentUploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return model.DocumentUploadResult{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return model.DocumentUploadResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return model.DocumentUploadResult{}, err
	}

	query := url.Values{}
	if propertyID != "" {
		query.Set("property_id", propertyID)
	}
	if documentType != "" {
		query.Set("document_type", documentType)
	}

	var result model.DocumentUploadResult
	err = c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/documents/upload",
		query:       query,
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
	}, &result)
	return result, err
}

// UploadFile names one file in a multi-file upload.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// UploadDocuments sends several files in one multipart request. The backend
// processes each file independently and reports per-file outcomes.
func (c *Client) UploadDocuments(ctx context.Context, sess session.Session, propertyID string, files []UploadFile) ([]model.DocumentUploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read upload %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	query := url.Values{}
	if propertyID != "" {
		query.Set("property_id", propertyID)
	}

	var results []model.DocumentUploadResult
	err := c.do(ctx, sess, call{
		method:      http.MethodPost,
		path:        "/documents/upload/multiple",
		query:       query,
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
	}, &results)
	return results, err
}

func (c *Client) ListDocuments(ctx context.Context, sess session.Session, propertyID string, documentType string, skip int, limit int) (model.DocumentList, error) {
	query := url.Values{}
	if propertyID != "" {
		query.Set("property_id", propertyID)
	}
	if documentType != "" {
		query.Set("document_type", documentType)
	}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var list model.DocumentList
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/documents/", query: query}, &list)
	return list, err
}

func (c *Client) GetDocument(ctx context.Context, sess session.Session, id string) (model.DocumentDetail, error) {
	var document model.DocumentDetail
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/documents/" + id}, &document)
	return document, err
}

func (c *Client) UpdateDocument(ctx context.Context, sess session.Session, id string, input model.DocumentUpdateInput) (model.Document, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return model.Document{}, err
	}

	var document model.Document
	err = c.do(ctx, sess, call{
		method:      http.MethodPut,
		path:        "/documents/" + id,
		contentType: "application/json",
		body:        body,
	}, &document)
	return document, err
}

func (c *Client) DeleteDocument(ctx context.Context, sess session.Session, id string) error {
	return c.do(ctx, sess, call{method: http.MethodDelete, path: "/documents/" + id}, nil)
}

func (c *Client) ReprocessDocument(ctx context.Context, sess session.Session, id string) (model.DocumentProcessResult, error) {
	var result model.DocumentProcessResult
	err := c.do(ctx, sess, call{method: http.MethodPost, path: "/documents/" + id + "/reprocess"}, &result)
	return result, err
}

// DownloadDocument streams the raw file. The caller owns the response body.
// The refresh-and-retry policy applies here the same as for JSON calls.
func (c *Client) DownloadDocument(ctx context.Context, sess session.Session, id string) (*http.Response, error) {
	resp, err := c.exchange(ctx, sess, call{method: http.MethodGet, path: "/documents/" + id + "/download"})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer drainClose(resp.Body)
		return nil, decodeError(resp)
	}

	return resp, nil
}

func (c *Client) TaskStatus(ctx context.Context, sess session.Session, taskID string) (model.TaskStatus, error) {
	var status model.TaskStatus
	err := c.do(ctx, sess, call{method: http.MethodGet, path: "/documents/task/" + taskID}, &status)
	return status, err
}
