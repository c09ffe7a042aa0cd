package acervo

import "errors"

const Namespace = "acervo"

var (
	// ErrChannelClosed reports a send or receive on a FiniteChannel after Close.
	ErrChannelClosed = errors.New(Namespace + ": channel closed")

	// ErrWorkerFailure wraps the first error returned by a user-supplied
	// transform inside a Pool or combinator worker.
	ErrWorkerFailure = errors.New(Namespace + ": worker task failed")

	// ErrInvalidConfig reports an invalid constructor argument or option.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrInvariant reports an internal invariant violation, such as releasing
	// an already-released admission grant. It indicates a programming error
	// and is raised via panic, never returned.
	ErrInvariant = errors.New(Namespace + ": invariant violation")
)
