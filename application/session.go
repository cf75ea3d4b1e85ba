package application

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// Session owns the terminal: raw input, alternate screen and hidden
// cursor from Open until Close.
type Session struct {
	screen tcell.Screen
	once   sync.Once
}

func Open(screen tcell.Screen) (*Session, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	return &Session{screen: screen}, nil
}

func (s *Session) Screen() tcell.Screen {
	return s.screen
}

// Close restores the terminal. Defer it directly: a panic is caught, the
// terminal is restored and the panic is raised again, otherwise the process
// would die without leaving any diagnostic trace.
func (s *Session) Close() {
	maybePanic := recover()
	s.once.Do(s.screen.Fini)
	if maybePanic != nil {
		panic(maybePanic)
	}
}

// ForwardSignals turns SIGINT and SIGTERM into interrupt events so the editor
// loop returns and the deferred Close runs.
func (s *Session) ForwardSignals(ctx context.Context) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			_ = s.screen.PostEvent(tcell.NewEventInterrupt(sig))
		case <-ctx.Done():
		}
	}()
}

// WakeOn posts a redraw request every time ch fires.
func (s *Session) WakeOn(ctx context.Context, ch <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ch:
				_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-ctx.Done():
				return
			}
		}
	}()
}
