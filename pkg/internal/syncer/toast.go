package syncer

import (
	"sync"
	"time"
)

const (
	ToastInfo    = "info"
	ToastSuccess = "success"
	ToastError   = "error"
)

// maxToasts bounds the queue of a client nobody drains.
const maxToasts = 32

type Toast struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Toaster queues the transient notifications shown to the user.
type Toaster struct {
	mu    sync.Mutex
	items []Toast
}

func (v *Toaster) push(level, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items, Toast{Level: level, Message: message, CreatedAt: time.Now()})
	if len(v.items) > maxToasts {
		v.items = v.items[len(v.items)-maxToasts:]
	}
}

func (v *Toaster) Info(message string) {
	v.push(ToastInfo, message)
}

func (v *Toaster) Success(message string) {
	v.push(ToastSuccess, message)
}

func (v *Toaster) Error(message string) {
	v.push(ToastError, message)
}

// Drain hands the queued toasts over and empties the queue.
func (v *Toaster) Drain() []Toast {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.items
	v.items = nil
	if out == nil {
		out = []Toast{}
	}
	return out
}
