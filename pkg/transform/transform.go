// Package transform chains reversible byte transforms (compression,
// encryption, text encoding) into a pipeline.
package transform

// Transform is one reversible pipeline stage.
type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}
