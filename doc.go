// Package acervo provides a small toolkit of concurrency primitives and
// stream combinators for producer/consumer pipelines with bounded memory
// and predictable ordering.
//
// Primitives
//   - Signal: one-shot wake primitive; any number of waiters are released
//     together when it is fulfilled.
//   - Channel: unbounded FIFO rendezvous queue matching senders to receivers.
//   - BoundedChannel: decorates a Channel with admission control; senders
//     block once the queue reaches capacity and are released FIFO.
//   - FiniteChannel: decorates a Channel with a Close operation; receivers
//     observe end-of-stream via ErrChannelClosed.
//
// Execution
//   - Pool: a fixed number of workers drains a source (slice, sequence, or
//     channel) through a transform into a sink, failing fast on the first
//     error.
//
// Stream combinators
//   - Buffered: single-worker prefetch bounded by a buffer size, order
//     preserving.
//   - BufferedConcurrent: multi-worker prefetch bounded by both buffer size
//     and worker count, unordered.
//   - Concurrent: plain fan-out over one sequence, no in-flight bound.
//   - ConcurrentMap: concurrent element-wise transform, unordered.
//
// All blocking operations take a context.Context; abandoning a combinator's
// output sequence releases its workers. Combinators are one-shot: drain the
// returned sequence at most once.
package acervo
