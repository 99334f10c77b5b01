package port

import "context"

// SubmissionClient posts a form payload to the backend. A non-nil error
// means the backend did not accept it.
type SubmissionClient interface {
	Submit(ctx context.Context, path string, payload interface{}) error
}
