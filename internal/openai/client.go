// Package openai asks a chat completion API for a natural language
// description of a pattern.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pipe01/regins/internal/config"
	"github.com/pipe01/regins/internal/prompt"
	"github.com/tliron/commonlog"
	"github.com/valyala/fasthttp"
)

var log = commonlog.GetLogger("regins.openai")

var ErrMissingAPIKey = errors.New("OpenAI API key not configured, set openai.api_key or " + config.EnvAPIKey)

const noResponse = "No response"

type APIError struct {
	Status    int
	RequestID string
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI request failed with status %d (x-request-id=%s)", e.Status, e.RequestID)
}

type Client struct {
	cfg   config.OpenAI
	http  *fasthttp.Client
	cache *cache
}

func New(cfg config.OpenAI) *Client {
	return NewWithHTTP(cfg, &fasthttp.Client{
		Name: "regins",
	})
}

// NewWithHTTP uses hc to send requests.
func NewWithHTTP(cfg config.OpenAI, hc *fasthttp.Client) *Client {
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}

	return &Client{
		cfg:   cfg,
		http:  hc,
		cache: newCache(),
	}
}

// Ask sends userPrompt along with the fixed system prompt and returns the
// first choice's content. Answers are cached per model and prompt.
func (c *Client) Ask(ctx context.Context, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	key := cacheKey(c.cfg.Model, userPrompt)
	if answer, ok := c.cache.get(key); ok {
		return answer, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer, err := c.do(ctx, userPrompt)
	if err != nil {
		return "", err
	}

	c.cache.put(key, answer)
	return answer, nil
}

func (c *Client) do(ctx context.Context, userPrompt string) (string, error) {
	requestID := uuid.NewString()

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.Organization != "" {
		req.Header.Set("OpenAI-Organization", c.cfg.Organization)
	}
	req.Header.Set("X-Client-Request-Id", requestID)
	req.SetBody(body)

	log.Debugf("sending chat completion request %s", requestID)

	status, respBody, err := c.send(ctx, req, resp)
	if err != nil {
		return "", fmt.Errorf("send request (x-request-id=%s): %w", requestID, err)
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{
			Status:    status,
			RequestID: requestID,
			Body:      string(respBody),
		}
		log.Errorf("%s. Body: %s", apiErr, apiErr.Body)
		return "", apiErr
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("decode response (x-request-id=%s): %w", requestID, err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return noResponse, nil
	}

	return chat.Choices[0].Message.Content, nil
}

// send performs req and gives up as soon as ctx is done, even without a
// deadline. req and resp are released once the exchange is over, which on
// cancellation is after send has returned.
func (c *Client) send(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) (int, []byte, error) {
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	done := make(chan error, 1)
	go func() {
		done <- c.http.DoDeadline(req, resp, c.deadline(ctx))
	}()

	select {
	case err := <-done:
		defer release()
		if err != nil {
			return 0, nil, err
		}

		return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil

	case <-ctx.Done():
		go func() {
			<-done
			release()
		}()
		return 0, nil, ctx.Err()
	}
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.cfg.Timeout)

	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}

	return deadline
}
