package database

import (
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// Notice is a server message raised while a statement ran
type Notice struct {
	Statement int    `json:"statement"` // Index of the statement that was running
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// NoticeCollector gathers NOTICE and WARNING messages from a connection.
// Install Handle as the connection's OnNotice callback.
type NoticeCollector struct {
	mu      sync.Mutex
	current int
	notices []Notice
}

// NewNoticeCollector returns an empty collector attributing notices to statement 0
func NewNoticeCollector() *NoticeCollector {
	return &NoticeCollector{}
}

// Handle records n against the current statement
func (c *NoticeCollector) Handle(_ *pgconn.PgConn, n *pgconn.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{
		Statement: c.current,
		Severity:  n.Severity,
		Code:      n.Code,
		Message:   n.Message,
	})
}

// SetStatement sets the statement that subsequent notices belong to
func (c *NoticeCollector) SetStatement(i int) {
	c.mu.Lock()
	c.current = i
	c.mu.Unlock()
}

// Drain returns the collected notices and forgets them
func (c *NoticeCollector) Drain() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = nil
	return out
}
