package eventbus

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrChannelFull = errors.New("channel is full")
)

const (
	toCoreBuffer = 100
	// state updates burst during chat floods
	toUIBuffer = 256

	breakerFailures = 5
	breakerCooldown = 30 * time.Second
)

// Direction names one side of the bus.
type Direction int

const (
	ToCore Direction = iota
	ToUI
)

func (d Direction) String() string {
	if d == ToUI {
		return "core->ui"
	}
	return "ui->core"
}

// EventBusError describes an event the bus refused.
type EventBusError struct {
	Direction Direction
	Event     string
	Err       error
}

func (e EventBusError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Direction, e.Event, e.Err)
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// lane is one buffered direction with its own breaker, so a stalled UI
// does not stop commands from reaching the core.
type lane[E any] struct {
	dir     Direction
	ch      chan E
	breaker *CircuitBreaker
}

func newLane[E any](dir Direction, size int, breaker *CircuitBreaker) *lane[E] {
	return &lane[E]{dir: dir, ch: make(chan E, size), breaker: breaker}
}

// EventBus carries UIEvents to the core service and CoreEvents back to the
// Bubble Tea program. Sends never block.
type EventBus struct {
	toCore *lane[UIEvent]
	toUI   *lane[CoreEvent]

	mu        sync.RWMutex
	onError   func(EventBusError)
	closeOnce sync.Once
}

func NewEventBus() *EventBus {
	return newEventBus(toCoreBuffer, toUIBuffer, breakerFailures, breakerCooldown)
}

func newEventBus(coreSize, uiSize, maxFailures int, cooldown time.Duration) *EventBus {
	return &EventBus{
		toCore: newLane[UIEvent](ToCore, coreSize, NewCircuitBreaker(maxFailures, cooldown)),
		toUI:   newLane[CoreEvent](ToUI, uiSize, NewCircuitBreaker(maxFailures, cooldown)),
	}
}

// SetErrorCallback registers a hook for refused events.
func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.onError = callback
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return send(eb, eb.toCore, event)
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return send(eb, eb.toUI, event)
}

func send[E any](eb *EventBus, l *lane[E], event E) error {
	if l.breaker.IsOpen() {
		return refuse(eb, l, event, ErrCircuitOpen)
	}
	select {
	case l.ch <- event:
		l.breaker.RecordSuccess()
		return nil
	default:
		return refuse(eb, l, event, ErrChannelFull)
	}
}

func refuse[E any](eb *EventBus, l *lane[E], event E, err error) error {
	l.breaker.RecordFailure()
	busErr := EventBusError{Direction: l.dir, Event: fmt.Sprintf("%T", event), Err: err}

	eb.mu.RLock()
	callback := eb.onError
	eb.mu.RUnlock()
	if callback != nil {
		callback(busErr)
	}
	return busErr
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.toCore.ch
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.toUI.ch
}

// State reports the breaker state of one direction.
func (eb *EventBus) State(dir Direction) CircuitBreakerState {
	if dir == ToUI {
		return eb.toUI.breaker.State()
	}
	return eb.toCore.breaker.State()
}

func (eb *EventBus) Close() {
	eb.closeOnce.Do(func() {
		close(eb.toCore.ch)
		close(eb.toUI.ch)
	})
}
