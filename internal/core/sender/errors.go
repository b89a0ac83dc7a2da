package sender

import "errors"

var errNoListeners = errors.New("sender: failed to bind any listener on either IP family")
