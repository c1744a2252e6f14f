package inbox

import "errors"

// ErrFeedClosed is returned when publishing to a closed feed.
var ErrFeedClosed = errors.New("inbox: feed is closed")
