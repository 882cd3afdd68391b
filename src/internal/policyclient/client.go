package policyclient

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

const DefaultTimeout = 10 * time.Second

// Request carries the attributes of one RCPT TO policy query.
type Request struct {
	Sender       string
	Recipient    string
	SASLUsername string
	SASLMethod   string
	QueueID      string
	MessageSize  int
}

// Attributes returns the request in wire order.
func (r Request) Attributes() [][2]string {
	attrs := [][2]string{
		{"request", "smtpd_access_policy"},
		{"protocol_state", "RCPT"},
		{"protocol_name", "SMTP"},
		{"sender", r.Sender},
		{"recipient", r.Recipient},
		{"recipient_count", "1"},
		{"queue_id", r.QueueID},
		{"size", strconv.Itoa(r.MessageSize)},
	}
	if r.SASLUsername != "" {
		method := r.SASLMethod
		if method == "" {
			method = "PLAIN"
		}
		attrs = append(attrs, [2]string{"sasl_method", method}, [2]string{"sasl_username", r.SASLUsername})
	}
	return attrs
}

// Reply is a policy server answer.
type Reply struct {
	Action     string            `json:"action"`
	Attributes map[string]string `json:"attributes"`
	Latency    time.Duration     `json:"latency"`
}

// Client queries a policy server over TCP.
type Client struct {
	Address string
	Timeout time.Duration

	dialer net.Dialer
}

// New returns a client for the server at address ("host:port").
func New(address string) *Client {
	return &Client{Address: address, Timeout: DefaultTimeout}
}

// NewQueueID returns a Postfix-like queue id: 9 upper case hex digits.
func NewQueueID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:9])
}

// Check sends req on a new connection and waits for the reply.
func (c *Client) Check(ctx context.Context, req Request) (*Reply, error) {
	if req.QueueID == "" {
		req.QueueID = NewQueueID()
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Address, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debugf("Failed to close connection to %s: %v", c.Address, err)
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	w := bufio.NewWriter(conn)
	for _, attr := range req.Attributes() {
		if _, err := fmt.Fprintf(w, "%s=%s\n", attr[0], attr[1]); err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
	}
	if _, err := w.WriteString("\n"); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	log.Debugf("Sent policy request %s to %s", req.QueueID, c.Address)

	reply, err := readReply(bufio.NewReader(conn))
	if err != nil {
		return nil, err
	}
	reply.Latency = time.Since(start)
	return reply, nil
}

// readReply reads attribute lines up to the terminating empty line or EOF.
func readReply(r *bufio.Reader) (*Reply, error) {
	reply := &Reply{Attributes: map[string]string{}}

	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			name, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("malformed reply line %q", line)
			}
			reply.Attributes[name] = value
		}
		if line == "" && err == nil {
			break
		}
		if err != nil {
			if len(reply.Attributes) == 0 {
				return nil, fmt.Errorf("failed to read reply: %w", err)
			}
			break
		}
	}

	action, ok := reply.Attributes["action"]
	if !ok {
		return nil, fmt.Errorf("reply has no action attribute")
	}
	reply.Action = action
	return reply, nil
}
