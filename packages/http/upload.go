package http

import "io"

// uploadState is the pull-based cursor behind PUT uploads. The transport
// asks it for data chunk by chunk; each Read hands out as many bytes as fit
// in the destination, never more than remain, and advances the cursor so no
// byte is handed out twice.
type uploadState struct {
	data []byte
	off  int
}

func newUploadState(data []byte) *uploadState {
	return &uploadState{data: data}
}

func (u *uploadState) Read(p []byte) (int, error) {
	if u.off >= len(u.data) {
		return 0, io.EOF
	}
	n := copy(p, u.data[u.off:])
	u.off += n
	return n, nil
}

// remaining reports how many bytes are still to be uploaded.
func (u *uploadState) remaining() int {
	return len(u.data) - u.off
}
