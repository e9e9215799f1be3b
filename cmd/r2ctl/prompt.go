package main

import (
	"context"
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// confirmFunc asks a yes/no question and reports the answer.
type confirmFunc func(label string) (bool, error)

func promptConfirm(stdin io.Reader, stdout io.Writer) confirmFunc {
	return func(label string) (bool, error) {
		prompt := promptui.Prompt{
			Label:     label,
			IsConfirm: true,
			Stdin:     io.NopCloser(stdin),
			Stdout:    nopWriteCloser{stdout},
		}
		_, err := prompt.Run()
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, promptui.ErrAbort):
			return false, nil
		default:
			return false, promptError(err)
		}
	}
}

// promptError maps an interrupted prompt to context cancellation so the
// process exits like any other interrupt.
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return context.Canceled
	}
	return err
}

// nopWriteCloser keeps promptui from closing the process's stdout.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
