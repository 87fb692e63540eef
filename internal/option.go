package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	input  io.Reader
	output io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithInput sets the reader the interactive menu reads from.
// Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(a *application) {
		a.input = r
	}
}

// WithOutput sets the writer the interactive menu prints to.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}
