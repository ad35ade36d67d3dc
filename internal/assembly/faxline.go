package assembly

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is returned by AssignLine when the day or month falls
// outside a valid calendar range.
var ErrInvalidDate = errors.New("invalid date")

// outboundLines maps a patient's birth date onto one of the physical outbound
// fax lines. Rows are indexed by day of month, columns by month parity. The
// values are the literal line assignments provisioned with the carrier and
// must not be edited without re-provisioning.
var outboundLines = [31][2]string{
	{"5414078870", "4173863088"},
	{"4177385090", "5418032963"},
	{"5418033064", "5414135726"},
	{"4173612814", "5414223358"},
	{"5418033298", "4173863480"},
	{"5418033051", "4177385061"},
	{"2184293566", "4173863058"},
	{"5414223357", "5418033142"},
	{"2184383078", "4173863059"},
	{"5414073925", "4173863175"},
	{"5414135731", "5418032645"},
	{"4173863121", "5414135790"},
	{"5414223362", "5414073957"},
	{"4177385102", "5414223139"},
	{"5414223354", "5418032629"},
	{"4173863194", "5414223452"},
	{"5414073934", "5418032650"},
	{"5414073956", "4177383964"},
	{"4173862613", "5414135749"},
	{"5414073973", "4173862607"},
	{"5414223183", "4173862623"},
	{"5414073929", "5413736201"},
	{"5414073982", "4177385004"},
	{"4177383942", "4173863117"},
	{"5418032624", "4177383408"},
	{"7752978471", "7756186914"},
	{"7752977579", "7755085077"},
	{"7755085114", "7752977559"},
	{"7756186529", "7752977671"},
	{"7756186931", "7752977537"},
	{"7755085530", "7756186411"},
}

// AssignLine deterministically picks the outbound fax line for a patient born
// on the given day of month and month. Day 31 and day ≡ 0 (mod 31) collapse
// to the same row.
func AssignLine(day, month int) (string, error) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", fmt.Errorf("day %d month %d: %w", day, month, ErrInvalidDate)
	}
	row := day % 31
	if row == 0 {
		row = 31
	}
	row--
	col := month % 2
	return outboundLines[row][col], nil
}
