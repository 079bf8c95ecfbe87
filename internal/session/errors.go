package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentity means nobody is signed in; submission is skipped.
	ErrNoIdentity = errors.New("no signed-in user")
	// ErrNoBackdrop means there is no image to annotate.
	ErrNoBackdrop = errors.New("no backdrop image")
	// ErrRasterize means the surface could not be encoded.
	ErrRasterize = errors.New("rasterize annotation")
	// ErrUpload means the annotated image could not be stored.
	ErrUpload = errors.New("upload annotation")
	// ErrPersist means the classification record could not be written.
	ErrPersist = errors.New("save classification")
	// ErrBusy means a submission is already running.
	ErrBusy = errors.New("submission in progress")
	// ErrClosed means the session was closed.
	ErrClosed = errors.New("session closed")
)

// SubmitError reports the stage a submission stopped at. It matches both the
// stage sentinel and the underlying cause with errors.Is.
type SubmitError struct {
	Stage error
	Err   error
}

func (e *SubmitError) Error() string {
	if e.Err == nil {
		return e.Stage.Error()
	}
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Stage}
	}
	return []error{e.Stage, e.Err}
}

// Message is a short text suitable for a status line.
func (e *SubmitError) Message() string {
	switch e.Stage {
	case ErrNoIdentity:
		return "sign in to submit"
	case ErrNoBackdrop:
		return "no image loaded"
	case ErrRasterize:
		return "could not prepare the image"
	case ErrUpload:
		return "upload failed, your annotations are kept"
	case ErrPersist:
		return "saving failed, your annotations are kept"
	case ErrBusy:
		return "already submitting"
	case ErrClosed:
		return "session closed"
	}
	return e.Error()
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Message()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func stageErr(stage, err error) error {
	return &SubmitError{Stage: stage, Err: err}
}
