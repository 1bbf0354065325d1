package status

import "errors"

var ErrTicketNotFound = errors.New("ticket: scan code not found")
