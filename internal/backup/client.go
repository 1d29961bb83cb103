package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
	"github.com/eventon/eventon/internal/store"
)

// TransportError wraps network and protocol failures talking to the backup
// endpoint. The caller decides whether to retry; the client never does.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backup %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to a remote backup endpoint implementing the
// POST /backup, GET /recover/{user_id} contract.
type Client struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// NewClient creates a client for the given endpoint base URL.
func NewClient(endpoint string, log zerolog.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Push uploads a document and returns the server's acknowledgement message.
func (c *Client) Push(ctx context.Context, doc *models.BackupDocument) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/backup", bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Op: "push", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Op: "push", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Op: "push", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var ack struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return "", &TransportError{Op: "push", Err: fmt.Errorf("invalid acknowledgement: %v", err)}
	}

	c.log.Info().Int64("user_id", doc.UserID).Str("message", ack.Message).Msg("Backup pushed")
	return ack.Message, nil
}

// Pull fetches the stored document for a user. A 404 from the server means
// no backup exists and maps to store.ErrBackupNotFound.
func (c *Client) Pull(ctx context.Context, userID int64) (*models.BackupDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/recover/%d", c.endpoint, userID), nil)
	if err != nil {
		return nil, &TransportError{Op: "pull", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "pull", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, store.ErrBackupNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: "pull", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var doc models.BackupDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &TransportError{Op: "pull", Err: fmt.Errorf("invalid document: %v", err)}
	}

	c.log.Info().Int64("user_id", userID).Str("timestamp", doc.Timestamp).Msg("Backup pulled")
	return &doc, nil
}
