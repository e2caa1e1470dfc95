package cmd

import (
	"go.uber.org/zap"
)

// ErrorChain returns the message of err followed by the message of every
// error it wraps, outermost first. Errors joining several causes are walked
// depth first in order. A message already reported is not repeated.
func ErrorChain(err error) []string {
	var chain []string
	seen := make(map[string]struct{})

	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		msg := err.Error()
		if _, dup := seen[msg]; !dup {
			seen[msg] = struct{}{}
			chain = append(chain, msg)
		}

		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			for _, cause := range e.Unwrap() {
				walk(cause)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)

	return chain
}

// ReportError logs err and then each of its causes as "because: <cause>"
func ReportError(logger *zap.Logger, err error) {
	chain := ErrorChain(err)
	if len(chain) == 0 {
		return
	}

	logger.Error(chain[0])
	for _, cause := range chain[1:] {
		logger.Error("because: " + cause)
	}
}
