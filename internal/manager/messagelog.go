package manager

import "github.com/weiawesome/wes-io-live/collab-service/internal/domain"

// messageLog is a bounded FIFO of chat messages. Once full, each append
// overwrites the oldest entry.
type messageLog struct {
	buf      []domain.ChatMessage
	start    int
	capacity int
}

func newMessageLog(capacity int) *messageLog {
	if capacity < 1 {
		capacity = DefaultLogCapacity
	}
	return &messageLog{capacity: capacity}
}

func (l *messageLog) append(msg domain.ChatMessage) {
	if len(l.buf) < l.capacity {
		l.buf = append(l.buf, msg)
		return
	}
	l.buf[l.start] = msg
	l.start = (l.start + 1) % l.capacity
}

func (l *messageLog) len() int {
	return len(l.buf)
}

// last copies out the most recent n messages in append order. n <= 0 or
// larger than the log returns everything.
func (l *messageLog) last(n int) []domain.ChatMessage {
	size := len(l.buf)
	if n <= 0 || n > size {
		n = size
	}
	out := make([]domain.ChatMessage, n)
	for i := 0; i < n; i++ {
		out[i] = l.buf[(l.start+size-n+i)%size]
	}
	return out
}
