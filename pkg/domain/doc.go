/*
Package domain contains the core model for the patter conversation engine.

It defines the authored entities of a scripted conversation — Sequences,
Messages, Choices, Routes and DataActions — plus the validation result types
and the lifecycle hooks the runtime emits. This package is kept pure and free
of I/O or persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Sequence: a named, ordered collection of messages forming one conversational unit.
  - Message: a single authored step, tagged by a closed set of types (bot, choice, autoroute, ...).
  - Choice: one selectable option on an interactive message.
  - RouteCondition: a conditional branch evaluated by an autoroute message.
  - DataAction: a mutation of the external data store, or a trigger event.
*/
package domain
