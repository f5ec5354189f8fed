package orders

import (
	"fmt"
	"strings"
)

const (
	ActorAdmin    = "admin"
	ActorCook     = "cook"
	ActorDriver   = "driver"
	ActorEmployee = "employee"
)

type Transition struct {
	From  Status
	To    Status
	Actor string
}

var transitions = []Transition{
	{From: StatusPending, To: StatusConfirmed, Actor: ActorCook},
	{From: StatusPending, To: StatusCancelled, Actor: ActorEmployee},
	{From: StatusConfirmed, To: StatusPreparing, Actor: ActorCook},
	{From: StatusConfirmed, To: StatusCancelled, Actor: ActorEmployee},
	{From: StatusPreparing, To: StatusReady, Actor: ActorCook},
	{From: StatusReady, To: StatusDelivered, Actor: ActorDriver},
}

type transitionKey struct {
	from  Status
	to    Status
	actor string
}

var allowed = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(transitions)*2)
	for _, t := range transitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
		m[transitionKey{t.From, t.To, ActorAdmin}] = true
	}
	return m
}()

// CanTransition reports whether actor may move an order from one status to
// another. Admins may perform every listed transition.
func CanTransition(from, to Status, actor string) error {
	if allowed[transitionKey{from, to, actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s not allowed for %s (valid next: %s)", ErrInvalidTransition, from, to, actor, describeNext(from))
}

func NextStatuses(from Status) []Status {
	var next []Status
	seen := make(map[Status]bool)
	for _, t := range transitions {
		if t.From == from && !seen[t.To] {
			next = append(next, t.To)
			seen[t.To] = true
		}
	}
	return next
}

func Transitions() []Transition {
	return append([]Transition(nil), transitions...)
}

func describeNext(from Status) string {
	next := NextStatuses(from)
	if len(next) == 0 {
		return "none"
	}
	names := make([]string, 0, len(next))
	for _, status := range next {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
