package service

import (
	"errors"
	"fmt"
)

// SubmissionState is the state of one listing submission attempt
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateBlocked
	StateUploading
	StateInserting
	StateSucceeded
	StateFailed
)

var stateNames = map[SubmissionState]string{
	StateIdle:      "idle",
	StateBlocked:   "blocked",
	StateUploading: "uploading",
	StateInserting: "inserting",
	StateSucceeded: "succeeded",
	StateFailed:    "failed",
}

func (s SubmissionState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SubmissionState(%d)", int(s))
}

// InFlight reports whether backend calls are outstanding; the submit
// control stays disabled in these states
func (s SubmissionState) InFlight() bool {
	return s == StateUploading || s == StateInserting
}

// Terminal reports whether the attempt has ended
func (s SubmissionState) Terminal() bool {
	return s == StateBlocked || s == StateSucceeded || s == StateFailed
}

// EventKind enumerates submission events
type EventKind int

const (
	EventSubmit EventKind = iota
	EventInvalid
	EventUploadsDone
	EventInsertAccepted
	EventFailed
)

// SubmissionEvent drives Transition. Authenticated and HasUploads only
// matter for EventSubmit.
type SubmissionEvent struct {
	Kind          EventKind
	Authenticated bool
	HasUploads    bool
}

var (
	ErrInvalidTransition  = errors.New("invalid submission transition")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// Transition is the only place submission state changes are decided
func Transition(from SubmissionState, event SubmissionEvent) (SubmissionState, error) {
	switch event.Kind {
	case EventSubmit:
		if from.InFlight() {
			return from, ErrSubmissionInFlight
		}
		switch {
		case !event.Authenticated:
			return StateBlocked, nil
		case event.HasUploads:
			return StateUploading, nil
		default:
			return StateInserting, nil
		}

	case EventInvalid:
		if from.InFlight() {
			return from, ErrSubmissionInFlight
		}
		return StateFailed, nil

	case EventUploadsDone:
		if from == StateUploading {
			return StateInserting, nil
		}

	case EventInsertAccepted:
		if from == StateInserting {
			return StateSucceeded, nil
		}

	case EventFailed:
		if from.InFlight() {
			return StateFailed, nil
		}
	}

	return from, fmt.Errorf("%w: event %d in state %s", ErrInvalidTransition, event.Kind, from)
}
