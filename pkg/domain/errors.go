package domain

import "errors"

// ErrSequenceNotFound is returned when a sequence ID cannot be resolved by the source.
var ErrSequenceNotFound = errors.New("sequence not found")

// ErrMessageNotFound is returned when a message ID is missing from the active sequence.
var ErrMessageNotFound = errors.New("message not found")

// ErrQueueDisposed is returned by any operation on a disposed delivery queue.
var ErrQueueDisposed = errors.New("delivery queue disposed")

// ErrNoPendingInteraction is returned when a resolution arrives while the
// queue is not suspended on an interactive message.
var ErrNoPendingInteraction = errors.New("no pending interactive message")

// ErrChoiceOutOfRange is returned when a choice resolution names an index the
// pending message does not have.
var ErrChoiceOutOfRange = errors.New("choice index out of range")
