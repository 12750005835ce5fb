package service

// BusinessError is a failure the pipeline understood: the request was valid
// but couldn't be completed (job not found, store write rejected). Handlers
// report these with a 200 so Brain reads the body instead of retrying.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

// RunError is a broken run: the pipeline itself failed (extraction returned
// garbage, unexpected error). Handlers report these with a 500.
type RunError struct {
	Message string
}

func (e *RunError) Error() string { return e.Message }

func businessErr(msg string) *BusinessError { return &BusinessError{Message: msg} }

func runErr(msg string) *RunError { return &RunError{Message: msg} }
