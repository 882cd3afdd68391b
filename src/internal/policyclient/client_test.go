package policyclient

import (
	"bufio"
	"context"
	"net"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// serve accepts one connection, records the request and writes reply.
func serve(t *testing.T, reply string) (string, <-chan map[string]string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("Skipping test: cannot listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	got := make(chan map[string]string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		attrs := map[string]string{}
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			line = strings.TrimRight(line, "\n")
			if line == "" {
				break
			}
			name, value, _ := strings.Cut(line, "=")
			attrs[name] = value
		}
		got <- attrs
		conn.Write([]byte(reply))
	}()

	return ln.Addr().String(), got
}

func TestClient_Check(t *testing.T) {
	addr, requests := serve(t, "action=REJECT over quota\n\n")

	c := New(addr)
	reply, err := c.Check(context.Background(), Request{
		Sender:       "alice@example.com",
		Recipient:    "bob@example.com",
		SASLUsername: "alice",
		QueueID:      "3F2A9B1C0",
		MessageSize:  2819,
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if reply.Action != "REJECT over quota" {
		t.Errorf("Action = %q", reply.Action)
	}
	if reply.Latency <= 0 {
		t.Errorf("Latency = %v", reply.Latency)
	}

	want := map[string]string{
		"request":         "smtpd_access_policy",
		"protocol_state":  "RCPT",
		"protocol_name":   "SMTP",
		"sender":          "alice@example.com",
		"recipient":       "bob@example.com",
		"recipient_count": "1",
		"queue_id":        "3F2A9B1C0",
		"size":            "2819",
		"sasl_method":     "PLAIN",
		"sasl_username":   "alice",
	}
	select {
	case got := <-requests:
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("request mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive request")
	}
}

func TestClient_ReplyWithoutTrailingBlankLine(t *testing.T) {
	addr, _ := serve(t, "action=DUNNO\n")

	reply, err := New(addr).Check(context.Background(), Request{Sender: "a@b", Recipient: "c@d"})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if reply.Action != "DUNNO" {
		t.Errorf("Action = %q", reply.Action)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no action", "foo=bar\n\n"},
		{"malformed", "garbage\n\n"},
		{"closed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, _ := serve(t, tt.reply)
			c := New(addr)
			c.Timeout = 2 * time.Second
			if _, err := c.Check(context.Background(), Request{}); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("Skipping test: cannot listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := New(addr).Check(context.Background(), Request{}); err == nil {
		t.Error("Expected connection error")
	}
}

func TestNewQueueID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-F]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewQueueID()
		if !re.MatchString(id) {
			t.Fatalf("NewQueueID() = %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("Expected mostly unique ids, got %d distinct", len(seen))
	}
}
