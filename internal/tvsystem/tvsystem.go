// Package tvsystem holds the collaborators around the core pipeline: where
// the desired channel list comes from and where the generated document goes.
package tvsystem

import "context"

// IO supplies the desired channel names for a run and delivers the generated
// document. The document is an opaque byte payload here.
type IO interface {
	ChannelList(ctx context.Context) ([]string, error)
	WriteDocument(data []byte) error
}
