package rag

import "errors"

// ErrNoText means extraction produced no usable text from the document.
var ErrNoText = errors.New("no text could be extracted from the document")
