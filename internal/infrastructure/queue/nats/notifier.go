package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// Notifier publishes re-capture guidance for rejected uploads. The uploader
// side subscribes to the feedback subject; delivery is best effort.
type Notifier struct {
	conn    *nats.Conn
	subject string
}

func NewNotifier(conn *nats.Conn, subject string) *Notifier {
	return &Notifier{conn: conn, subject: subject}
}

type recaptureEvent struct {
	DocumentID string                 `json:"document_id"`
	Feedback   domain.QualityFeedback `json:"feedback"`
}

func (n *Notifier) Notify(ctx context.Context, documentID string, feedback domain.QualityFeedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(recaptureEvent{DocumentID: documentID, Feedback: feedback})
	if err != nil {
		return fmt.Errorf("marshal recapture event: %w", err)
	}
	if err := n.conn.Publish(n.subject, payload); err != nil {
		return wrapTemporaryIfNeeded(fmt.Errorf("publish recapture event: %w", err))
	}
	return nil
}
