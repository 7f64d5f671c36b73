package input

import "fmt"

// Action is a named discrete input, already mapped from hardware.
type Action int

const (
	ActionJump Action = iota
	ActionSprint
	ActionCrouch
	ActionInteract
)

func (a Action) String() string {
	switch a {
	case ActionJump:
		return "jump"
	case ActionSprint:
		return "sprint"
	case ActionCrouch:
		return "crouch"
	case ActionInteract:
		return "interact"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Edge is the transition that fired an action callback.
type Edge int

const (
	Pressed Edge = iota
	Released
)

func (e Edge) String() string {
	if e == Pressed {
		return "pressed"
	}
	return "released"
}

type Handler func(edge Edge)
