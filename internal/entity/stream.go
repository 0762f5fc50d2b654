package entity

// CompletionStream is a lazy, finite, non-restartable sequence of text
// fragments produced by one model completion. Recv returns io.EOF only when
// the provider signals a clean end-of-stream; any other error, including a
// connection that closed before the terminal marker, means the stream was
// interrupted mid-delivery. Close abandons the stream without draining it.
type CompletionStream interface {
	Recv() (string, error)
	Close() error
}
