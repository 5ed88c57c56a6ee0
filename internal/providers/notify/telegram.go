package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const telegramAPI = "https://api.telegram.org"

var ErrNoToken = errors.New("telegram bot token not configured")

// Telegram sends messages through the Bot API sendMessage method.
type Telegram struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewTelegram limits outbound calls to perSecond; zero means unlimited.
func NewTelegram(token string, perSecond float64) *Telegram {
	lim := rate.NewLimiter(rate.Inf, 1)
	if perSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Telegram{
		token:   token,
		baseURL: telegramAPI,
		http:    &http.Client{Timeout: 5 * time.Second},
		limiter: lim,
	}
}

// WithBaseURL points the client at another Bot API host.
func (t *Telegram) WithBaseURL(u string) *Telegram {
	t.baseURL = u
	return t
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) Deliver(ctx context.Context, chatID int64, text string) error {
	if t.token == "" {
		return ErrNoToken
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var out apiResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK || !out.OK {
		if out.Description == "" {
			out.Description = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("telegram sendMessage %d: %s", resp.StatusCode, out.Description)
	}
	return nil
}
