/*
Package ports defines the driven ports (interfaces) for the patter engine.

These interfaces decouple the core interpreter from its external
collaborators: the flat key-value data store, the hierarchical content
library, the trigger-event sink, the sequence source, and the clock the
delivery queue paces itself against.

The engine only ever reads and writes flat scalar values by dotted string
key; it never nests objects in the store.
*/
package ports
