//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory. User data is
// tracked in a side map keyed by fd rather than packed into the
// EpollEvent's platform-specific padding field, whose layout (and
// presence) varies by architecture.

package reactor

import (
	"sync"

	"golang.org/x/sys/unix"
)

// linuxReactor is an epoll-based event reactor.
type linuxReactor struct {
	epfd int
	mu   sync.RWMutex
	data map[int32]uintptr
}

// NewReactor constructs a new platform-specific EventReactor for Linux.
func NewReactor() (EventReactor, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &linuxReactor{epfd: epfd, data: make(map[int32]uintptr)}, nil
}

// Register adds a file descriptor to epoll, watching for read/write
// readiness in edge-triggered mode.
func (r *linuxReactor) Register(fd uintptr, udata uintptr) error {
	event := &unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLET,
		Fd:     int32(fd),
	}
	r.mu.Lock()
	r.data[int32(fd)] = udata
	r.mu.Unlock()
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, int(fd), event); err != nil {
		r.mu.Lock()
		delete(r.data, int32(fd))
		r.mu.Unlock()
		return err
	}
	return nil
}

// Wait waits for epoll events and fills the result into the events slice.
func (r *linuxReactor) Wait(events []Event) (int, error) {
	rawEvents := make([]unix.EpollEvent, len(events))
	n, err := unix.EpollWait(r.epfd, rawEvents, -1)
	if err != nil {
		return 0, err
	}
	r.mu.RLock()
	for i := 0; i < n; i++ {
		events[i] = Event{
			Fd:       uintptr(rawEvents[i].Fd),
			UserData: r.data[rawEvents[i].Fd],
		}
	}
	r.mu.RUnlock()
	return n, nil
}

// Close closes the epoll instance.
func (r *linuxReactor) Close() error {
	return unix.Close(r.epfd)
}
