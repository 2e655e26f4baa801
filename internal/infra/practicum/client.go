// Package practicum implements the client for the Practicum homework statuses API.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4096
)

var ErrInvalidJSON = errors.New("response body is not valid JSON")

// StatusCodeError is returned when the API answers with anything but 200 OK.
type StatusCodeError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusCodeError) Error() string {
	msg := fmt.Sprintf("endpoint %s returned status %d", e.Endpoint, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// RequestError is returned when the request could not be completed at all.
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ClientConfig configures the homework statuses client.
type ClientConfig struct {
	// Endpoint is the homework statuses URL. Defaults to DefaultEndpoint.
	Endpoint string

	// Token is the Practicum OAuth token.
	Token string

	// Timeout bounds a single request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
}

func NewClient(cfg ClientConfig, logger *logrus.Entry) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		logger:     logger.WithField("component", "practicum_client"),
	}
}

// GetAPIAnswer requests homework statuses changed since fromDate (unix seconds)
// and returns the decoded JSON body. It performs exactly one request.
func (c *Client) GetAPIAnswer(ctx context.Context, fromDate int64) (any, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	query := reqURL.Query()
	query.Set("from_date", strconv.FormatInt(fromDate, 10))
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", fromDate).Debug("Requesting homework statuses")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusCodeError{
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var answer any
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		if ctx.Err() != nil {
			return nil, &RequestError{Endpoint: c.endpoint, Err: ctx.Err()}
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return answer, nil
}
