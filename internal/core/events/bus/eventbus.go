package bus

import "reflect"

// MaxEventTypes caps the number of distinct event types a Bus will index.
const MaxEventTypes = 256

// Bus is a per-type double-buffered publish/read channel. Producers push
// events into a type's write buffer at any point during a frame; consumers
// only ever observe the read buffer, which is repopulated when the frame loop
// calls SwapBuffers at a commit point. An event is therefore visible for
// exactly one swap generation and never mid-frame.
//
// Single-threaded by design, like everything the frame loop owns.
type Bus struct {
	typeIDs map[reflect.Type]uint8
	buffers []swapper
}

// swapper is the type-erased face of a buffer[T].
type swapper interface {
	swap()
	reset()
	pending() int
	visible() int
}

type buffer[T any] struct {
	read  []T
	write []T
}

func (b *buffer[T]) swap() {
	b.read = b.read[:0]
	b.read, b.write = b.write, b.read
}

func (b *buffer[T]) reset() {
	b.read = b.read[:0]
	b.write = b.write[:0]
}

func (b *buffer[T]) pending() int { return len(b.write) }
func (b *buffer[T]) visible() int { return len(b.read) }

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		typeIDs: make(map[reflect.Type]uint8, 16),
		buffers: make([]swapper, 0, 16),
	}
}

// Push appends an event to the write buffer for type T, O(1) amortized. The
// value is owned by the bus from this point on.
func Push[T any](b *Bus, event T) {
	buf := bufferFor[T](b)
	buf.write = append(buf.write, event)
}

// Read returns the events of type T exposed by the last SwapBuffers, or an
// empty slice if the type has no visible events. The slice is read-only and
// valid until the next swap.
func Read[T any](b *Bus) []T {
	if id, ok := b.typeIDs[reflect.TypeOf((*T)(nil)).Elem()]; ok {
		return b.buffers[id].(*buffer[T]).read
	}
	return nil
}

// SwapBuffers clears each prior read buffer, then exchanges it with its write
// buffer, for every event type ever used. O(1) per type.
func (b *Bus) SwapBuffers() {
	for _, buf := range b.buffers {
		buf.swap()
	}
}

// Clear empties every buffer on both sides without swapping.
func (b *Bus) Clear() {
	for _, buf := range b.buffers {
		buf.reset()
	}
}

// Pending returns the total number of events waiting in write buffers.
func (b *Bus) Pending() int {
	n := 0
	for _, buf := range b.buffers {
		n += buf.pending()
	}
	return n
}

// Visible returns the total number of events exposed by the last swap.
func (b *Bus) Visible() int {
	n := 0
	for _, buf := range b.buffers {
		n += buf.visible()
	}
	return n
}

// bufferFor registers or fetches the buffer for event type T.
func bufferFor[T any](b *Bus) *buffer[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if id, ok := b.typeIDs[t]; ok {
		return b.buffers[id].(*buffer[T])
	}
	if len(b.buffers) >= MaxEventTypes {
		panic("bus: too many event types")
	}
	id := uint8(len(b.buffers))
	buf := &buffer[T]{}
	b.typeIDs[t] = id
	b.buffers = append(b.buffers, buf)
	return buf
}
