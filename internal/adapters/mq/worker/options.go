package worker

import "github.com/BrainTwoPoint0/nexus-sub002/pkg/logger"

// Option is a function that configures a Worker.
type Option func(*Worker)

// WithName sets the worker's name, used to tag its log output.
func WithName(name string) Option {
	return func(w *Worker) {
		w.name = name
	}
}

// WithLogger sets the worker's base logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		w.logger = l
	}
}
