package value

import "errors"

// ErrStreamConsumed indicates a second iteration attempt over a one-shot
// stream.
var ErrStreamConsumed = errors.New("value: stream already consumed")
