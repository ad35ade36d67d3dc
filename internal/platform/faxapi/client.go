// Package faxapi is the REST client for the fax provider. Outbound documents
// are staged provider-side as "tmp faxes": created, given an attachment,
// sent, and always deleted afterward regardless of outcome.
package faxapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// CreateTmpFaxRequest is the staging payload. Resolution, page size, and
// coversheet settings are fixed by the caller.
type CreateTmpFaxRequest struct {
	ToName            string   `json:"toName"`
	FromName          string   `json:"fromName"`
	FromNumber        string   `json:"fromNumber"`
	Recipients        []string `json:"recipients"`
	Resolution        string   `json:"resolution"`
	PageSize          string   `json:"pageSize"`
	IncludeCoversheet bool     `json:"includeCoversheet"`
	Message           string   `json:"message"`
	CompanyInfo       string   `json:"companyInfo"`
}

// SentFaxRecipient is one recipient entry on a sent-fax status record.
type SentFaxRecipient struct {
	ToNumber      string `json:"toNumber"`
	FailureReason string `json:"failureReason"`
}

// SentFax is the provider's status record for a completed transmission.
type SentFax struct {
	ID         string
	Status     string
	Recipients []SentFaxRecipient
}

type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient builds a fax provider client authenticating with HTTP Basic from
// the configured key pair.
func NewClient(baseURL, accessKey, secretKey string, logger zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetBasicAuth(accessKey, secretKey)
	return &Client{http: http, logger: logger}
}

type tmpFaxResponse struct {
	Data struct {
		TmpFax struct {
			ID json.Number `json:"id"`
		} `json:"tmpFax"`
	} `json:"data"`
}

type tmpFaxListResponse struct {
	Data struct {
		TmpFaxIDs []json.Number `json:"tmpFaxIds"`
	} `json:"data"`
}

type sentFaxListResponse struct {
	Data struct {
		SentFaxIDs []json.Number `json:"sentFaxIds"`
	} `json:"data"`
}

type sentFaxResponse struct {
	Data struct {
		SentFax struct {
			ID         json.Number        `json:"id"`
			Status     string             `json:"status"`
			Recipients []SentFaxRecipient `json:"recipients"`
		} `json:"sentFax"`
	} `json:"data"`
}

// CreateTmpFax stages a new outbound fax and returns its id.
func (c *Client) CreateTmpFax(ctx context.Context, req CreateTmpFaxRequest) (string, error) {
	var out tmpFaxResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/tmpFax")
	if err != nil {
		return "", fmt.Errorf("create tmp fax: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("create tmp fax: %s", resp.Status())
	}
	return out.Data.TmpFax.ID.String(), nil
}

// UploadAttachment attaches the document at path to a staged fax.
func (c *Client) UploadAttachment(ctx context.Context, faxID, path string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", path).
		Post("/attachment/" + faxID)
	if err != nil {
		return fmt.Errorf("upload attachment: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("upload attachment: %s", resp.Status())
	}
	return nil
}

// SendFax triggers transmission of a staged fax.
func (c *Client) SendFax(ctx context.Context, faxID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/tmpFax/" + faxID + "/send")
	if err != nil {
		return fmt.Errorf("send fax: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send fax: %s", resp.Status())
	}
	return nil
}

// DeleteTmpFax removes a staged fax. Best-effort: callers treat failures as
// non-fatal.
func (c *Client) DeleteTmpFax(ctx context.Context, faxID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/tmpFax/" + faxID)
	if err != nil {
		return fmt.Errorf("delete tmp fax: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete tmp fax: %s", resp.Status())
	}
	return nil
}

// ListTmpFaxes returns the ids of every staged-but-unsent fax on the account.
func (c *Client) ListTmpFaxes(ctx context.Context) ([]string, error) {
	var out tmpFaxListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/tmpFaxes")
	if err != nil {
		return nil, fmt.Errorf("list tmp faxes: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list tmp faxes: %s", resp.Status())
	}
	ids := make([]string, 0, len(out.Data.TmpFaxIDs))
	for _, id := range out.Data.TmpFaxIDs {
		ids = append(ids, id.String())
	}
	return ids, nil
}

// ListSentFaxes returns the ids of faxes sent from the given line inside the
// time window.
func (c *Client) ListSentFaxes(ctx context.Context, from, to time.Time, fromNumber string) ([]string, error) {
	var out sentFaxListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"timeFrom":   strconv.FormatInt(from.Unix(), 10),
			"timeTo":     strconv.FormatInt(to.Unix(), 10),
			"fromNumber": fromNumber,
		}).
		SetResult(&out).
		Get("/sentFaxes")
	if err != nil {
		return nil, fmt.Errorf("list sent faxes: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list sent faxes: %s", resp.Status())
	}
	ids := make([]string, 0, len(out.Data.SentFaxIDs))
	for _, id := range out.Data.SentFaxIDs {
		ids = append(ids, id.String())
	}
	return ids, nil
}

// GetSentFax fetches the full status record for one sent fax.
func (c *Client) GetSentFax(ctx context.Context, faxID string) (SentFax, error) {
	var out sentFaxResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/sentFax/" + faxID)
	if err != nil {
		return SentFax{}, fmt.Errorf("get sent fax: %w", err)
	}
	if resp.IsError() {
		return SentFax{}, fmt.Errorf("get sent fax: %s", resp.Status())
	}
	return SentFax{
		ID:         out.Data.SentFax.ID.String(),
		Status:     out.Data.SentFax.Status,
		Recipients: out.Data.SentFax.Recipients,
	}, nil
}
