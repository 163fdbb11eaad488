// Package media defines the playback handles the editor attaches to Audio and Video
// objects. The decoding backends live in the audio and video subpackages.
package media

import "image"

// Audio is a playback handle for an Audio object.
type Audio interface {
	// Play starts from the beginning.
	Play() error
	// Pause stops playback and rewinds.
	Pause()
	Playing() bool
	Close() error
}

// Toggle plays a paused handle from the start, or pauses and rewinds a playing one.
func Toggle(a Audio) error {
	if a.Playing() {
		a.Pause()
		return nil
	}
	return a.Play()
}

// Video is a looping, muted frame source for a Video object.
type Video interface {
	// Frame returns the latest decoded frame and a counter that increases per frame.
	Frame() (*image.RGBA, uint64)
	Size() (width, height int)
	Close() error
}
