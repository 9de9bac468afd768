package client

import (
	"context"
	"fmt"
	"time"

	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/shopspring/decimal"
	"resty.dev/v3"
)

const (
	_transformURL = "/api/v1/transform"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError is returned for non-2xx answers of the transformer API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transform request failed with status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	c      *resty.Client
	logger logger.Logger
}

func New(baseURL string, timeout time.Duration, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		c:      client,
		logger: logger,
	}
}

func (c *Client) Close() error {
	return c.c.Close()
}

// curl "http://localhost:8080/api/v1/transform?money=100&from=USD&to=EUR"
func (c *Client) Transform(ctx context.Context, money decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == "" || to == "" {
		return decimal.Decimal{}, fmt.Errorf("empty currency code")
	}

	req := c.c.R().
		SetQueryParams(map[string]string{
			"money": money.String(),
			"from":  from,
			"to":    to,
		}).
		SetResult(&decimal.Decimal{}).
		SetError(&ErrorResponse{}).
		SetContext(ctx)

	resp, err := req.Get(_transformURL)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: can't send transform request", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*ErrorResponse); ok && e.Error != "" {
			msg = e.Error
		}
		return decimal.Decimal{}, &StatusError{StatusCode: resp.StatusCode(), Message: msg}
	}
	if resp.IsSuccess() {
		if amount, ok := resp.Result().(*decimal.Decimal); ok {
			return *amount, nil
		}
	}

	return decimal.Decimal{}, fmt.Errorf("transform unexpected response: %s", resp.Status())
}
