package routeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"trip-planner/internal/api/dto"
	"trip-planner/internal/platform/obs"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// StatusError is returned for any response with status >= 400.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Message)
}

// HTTPRouteAPI implements ports.RouteAPI against the trip API over HTTP.
//
// Idempotent requests (GET, PUT, DELETE) are retried with exponential backoff
// on network errors, 429 and 5xx responses. Creates are sent exactly once.
// The client is safe for concurrent use.
type HTTPRouteAPI struct {
	session       *http.Client
	baseURL       string
	authorization string
	maxRetries    uint64
	newBackOff    func() backoff.BackOff
}

type Option func(*HTTPRouteAPI)

func WithHTTPClient(c *http.Client) Option {
	return func(a *HTTPRouteAPI) { a.session = c }
}

func WithMaxRetries(n uint64) Option {
	return func(a *HTTPRouteAPI) { a.maxRetries = n }
}

func WithBackOff(fn func() backoff.BackOff) Option {
	return func(a *HTTPRouteAPI) { a.newBackOff = fn }
}

func NewHTTPRouteAPI(baseURL string, authorization string, opts ...Option) (*HTTPRouteAPI, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("route api: base url is empty")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("route api: parse base url %q: %w", baseURL, err)
	}

	a := &HTTPRouteAPI{
		session:       &http.Client{Timeout: 10 * time.Second},
		baseURL:       baseURL,
		authorization: authorization,
		maxRetries:    3,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			return b
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func (a *HTTPRouteAPI) GetRoute(ctx context.Context) (_ []dto.RoutePoint, err error) {
	defer obs.Time(ctx, "routeapi.GetRoute")(&err)

	resp, err := a.doWithRetry(ctx, true, func() (*http.Request, error) {
		return a.newRequest(ctx, http.MethodGet, a.baseURL+"/points", nil)
	})
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	defer resp.Body.Close()

	var points []dto.RoutePoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("get route: decode response: %w", err)
	}

	return points, nil
}

func (a *HTTPRouteAPI) CreateRoutePoint(ctx context.Context, point dto.RoutePoint) (_ dto.RoutePoint, err error) {
	defer obs.Time(ctx, "routeapi.CreateRoutePoint")(&err)

	payload, err := json.Marshal(point)
	if err != nil {
		return dto.RoutePoint{}, fmt.Errorf("create route point: marshal: %w", err)
	}

	resp, err := a.doWithRetry(ctx, false, func() (*http.Request, error) {
		return a.newRequest(ctx, http.MethodPost, a.baseURL+"/points", bytes.NewReader(payload))
	})
	if err != nil {
		return dto.RoutePoint{}, fmt.Errorf("create route point: %w", err)
	}
	defer resp.Body.Close()

	return decodePoint(resp.Body, "create route point")
}

func (a *HTTPRouteAPI) UpdateRoutePoint(ctx context.Context, point dto.RoutePoint) (_ dto.RoutePoint, err error) {
	defer obs.Time(ctx, "routeapi.UpdateRoutePoint")(&err)

	if point.ID == "" {
		return dto.RoutePoint{}, errors.New("update route point: id must be non-empty")
	}

	payload, err := json.Marshal(point)
	if err != nil {
		return dto.RoutePoint{}, fmt.Errorf("update route point %q: marshal: %w", point.ID, err)
	}

	resp, err := a.doWithRetry(ctx, true, func() (*http.Request, error) {
		return a.newRequest(ctx, http.MethodPut, a.pointURL(point.ID), bytes.NewReader(payload))
	})
	if err != nil {
		return dto.RoutePoint{}, fmt.Errorf("update route point %q: %w", point.ID, err)
	}
	defer resp.Body.Close()

	return decodePoint(resp.Body, "update route point")
}

func (a *HTTPRouteAPI) DeleteRoutePoint(ctx context.Context, point dto.RoutePoint) (err error) {
	defer obs.Time(ctx, "routeapi.DeleteRoutePoint")(&err)

	if point.ID == "" {
		return errors.New("delete route point: id must be non-empty")
	}

	resp, err := a.doWithRetry(ctx, true, func() (*http.Request, error) {
		return a.newRequest(ctx, http.MethodDelete, a.pointURL(point.ID), nil)
	})
	if err != nil {
		return fmt.Errorf("delete route point %q: %w", point.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (a *HTTPRouteAPI) pointURL(id string) string {
	return a.baseURL + "/points/" + url.PathEscape(id)
}

func (a *HTTPRouteAPI) newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if a.authorization != "" {
		req.Header.Set("Authorization", a.authorization)
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (a *HTTPRouteAPI) do(req *http.Request) (*http.Response, error) {
	resp, err := a.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(b),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures when retry is set, respecting
// context cancellation. Other failures are returned immediately.
func (a *HTTPRouteAPI) doWithRetry(
	ctx context.Context,
	retry bool,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		req, err := makeReq()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("make request: %w", err))
		}

		r, err := a.do(req)
		if err != nil {
			if !retry || !transient(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		resp = r
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(a.newBackOff(), a.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).Dur("wait", wait).Msg("Retrying trip API request")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}

	return resp, nil
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// errorMessage prefers the service's {"error": "..."} body over raw text.
func errorMessage(body []byte) string {
	var decoded dto.ErrorResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != "" {
		return decoded.Error
	}
	return strings.TrimSpace(string(body))
}

func decodePoint(r io.Reader, op string) (dto.RoutePoint, error) {
	var point dto.RoutePoint
	if err := json.NewDecoder(r).Decode(&point); err != nil {
		return dto.RoutePoint{}, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return point, nil
}
