package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/apperrors"
)

// DefaultExpoPushURL is Expo's push delivery endpoint.
const DefaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// maxChunkSize is the most messages Expo accepts per request.
const maxChunkSize = 100

// ExpoClient delivers messages through the Expo push service over plain HTTP.
type ExpoClient struct {
	url        string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewExpoClient creates an Expo push client. An empty url selects the
// production endpoint; tests point it at a local server.
func NewExpoClient(url string, logger *zap.SugaredLogger) *ExpoClient {
	if url == "" {
		url = DefaultExpoPushURL
	}
	return &ExpoClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type expoPushMessage struct {
	To       string            `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

type expoPushResponse struct {
	Data   []expoTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Submit sends one message and interprets its ticket. A ticket with
// status "error" is the message's failure outcome and surfaces as
// DeliveryFailed with the ticket's error code.
func (e *ExpoClient) Submit(ctx context.Context, msg Message) (*Receipt, error) {
	var tickets []expoTicket
	for _, chunk := range chunkMessages([]Message{msg}) {
		chunkTickets, err := e.sendChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, chunkTickets...)
	}
	if len(tickets) == 0 {
		return nil, apperrors.DeliveryFailed("", "expo returned no ticket for message")
	}

	ticket := tickets[0]
	if ticket.Status == "error" {
		if e.logger != nil {
			e.logger.Warnw("expo rejected message",
				"error_code", ticket.Details.Error,
				"error_message", ticket.Message,
			)
		}
		return nil, apperrors.DeliveryFailed(ticket.Details.Error, "%s", ticket.Message)
	}

	return &Receipt{ID: ticket.ID, Provider: "expo"}, nil
}

// sendChunk posts up to one chunk's worth of messages and returns their
// tickets in submission order.
func (e *ExpoClient) sendChunk(ctx context.Context, msgs []Message) ([]expoTicket, error) {
	if len(msgs) > maxChunkSize {
		return nil, fmt.Errorf("chunk of %d exceeds expo limit of %d", len(msgs), maxChunkSize)
	}

	payload := make([]expoPushMessage, 0, len(msgs))
	for _, m := range msgs {
		sound := m.Sound
		if sound == "" {
			sound = "default"
		}
		priority := m.Priority
		if priority == "" {
			priority = "high"
		}
		payload = append(payload, expoPushMessage{
			To:       m.To,
			Title:    m.Title,
			Body:     m.Body,
			Data:     m.Data,
			Sound:    sound,
			Priority: priority,
		})
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Unavailable(err, "expo push service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to read expo response")
	}

	if resp.StatusCode >= 300 {
		return nil, apperrors.DeliveryFailed("", "expo push failed with status %d", resp.StatusCode)
	}

	var parsed expoPushResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.Unavailable(err, "failed to decode expo response")
	}
	if len(parsed.Errors) > 0 {
		return nil, apperrors.DeliveryFailed(parsed.Errors[0].Code, "%s", parsed.Errors[0].Message)
	}

	return parsed.Data, nil
}

// chunkMessages splits messages into transport chunks of at most
// maxChunkSize, mirroring expo-server-sdk's chunkPushNotifications.
func chunkMessages(msgs []Message) [][]Message {
	var chunks [][]Message
	for len(msgs) > maxChunkSize {
		chunks = append(chunks, msgs[:maxChunkSize])
		msgs = msgs[maxChunkSize:]
	}
	if len(msgs) > 0 {
		chunks = append(chunks, msgs)
	}
	return chunks
}
