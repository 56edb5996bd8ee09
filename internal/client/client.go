package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

// HTTPClient реализует доступ к сервису обработки контента по REST.
type HTTPClient struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPClient создаёт нового HTTP клиента по адресу сервиса и токену доступа.
// timeout ограничивает обычные запросы; 0 означает таймаут по умолчанию.
// Генерация теста всегда получает не меньше timeoutGenerate.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = timeoutRequest
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// GenerateQuiz просит сервис сгенерировать тест по видео videoID.
// Возвращает набор вопросов в случае успеха.
func (c *HTTPClient) GenerateQuiz(ctx context.Context, videoID string) (*quiz.QuestionSet, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, max(c.timeout, timeoutGenerate))
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, http.MethodPost, "/quiz/generate", generateRequest{VideoID: videoID})
	if err != nil {
		return nil, err
	}

	return quiz.ParseQuestionSet(rawResp)
}

// GetQuiz загружает уже сгенерированный тест по видео videoID.
func (c *HTTPClient) GetQuiz(ctx context.Context, videoID string) (*quiz.QuestionSet, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.timeout)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, http.MethodGet, "/quiz/"+url.PathEscape(videoID), nil)
	if err != nil {
		return nil, err
	}

	return quiz.ParseQuestionSet(rawResp)
}

// SubmitQuiz отправляет ответы на сохранение и оценку.
// Возвращает результат попытки и вопросы с правильными ответами.
func (c *HTTPClient) SubmitQuiz(ctx context.Context, submission quiz.Submission) (*quiz.SubmissionResponse, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.timeout)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, http.MethodPost, "/quiz/submit", submission)
	if err != nil {
		return nil, err
	}

	var resp quiz.SubmissionResponse
	if err = json.Unmarshal(rawResp, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode submission response: %w", err)
	}

	return &resp, nil
}

// ListAttempts возвращает историю попыток по видео videoID.
func (c *HTTPClient) ListAttempts(ctx context.Context, videoID string) ([]quiz.AttemptResult, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.timeout)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, http.MethodGet, "/quiz/"+url.PathEscape(videoID)+"/attempts", nil)
	if err != nil {
		return nil, err
	}

	var resp attemptsResponse
	if err = json.Unmarshal(rawResp, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode attempts: %w", err)
	}

	return resp.Attempts, nil
}

// ListAllAttempts возвращает историю попыток по всем видео и количество начатых тестов.
func (c *HTTPClient) ListAllAttempts(ctx context.Context) (*AllAttempts, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.timeout)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, http.MethodGet, "/quiz/attempts", nil)
	if err != nil {
		return nil, err
	}

	var resp AllAttempts
	if err = json.Unmarshal(rawResp, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode attempts: %w", err)
	}

	return &resp, nil
}

// doRequest выполняет запрос к сервису.
// Возвращает тело ответа в случае успеха и *APIError при статусе не 2xx.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	method string,
	path string,
	payload interface{},
) (json.RawMessage, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to do %s request for %s: %w", method, path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}

		message := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &result) == nil {
			switch {
			case result.Error != "":
				message = result.Error
			case result.Detail != "":
				message = result.Detail
			}
		}

		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	return data, nil
}

// Summary собирает сводку по всем видео пользователя.
func (c *HTTPClient) Summary(ctx context.Context) (stats.Summary, error) {
	all, err := c.ListAllAttempts(ctx)
	if err != nil {
		return stats.Summary{}, err
	}

	return stats.Rollup(all.Attempts, all.QuizzesStarted), nil
}
