package swap

import (
	"fmt"
	"strings"
)

// Side tells whether the fixed leg is paid or received.
type Side string

const (
	// Payer pays fixed and receives floating.
	Payer Side = "PAY"
	// Receiver receives fixed and pays floating.
	Receiver Side = "REC"
)

// ParseSide accepts PAY/PAYER and REC/RECEIVE/RECEIVER, case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PAY", "PAYER":
		return Payer, nil
	case "REC", "RECEIVE", "RECEIVER":
		return Receiver, nil
	}
	return "", fmt.Errorf("ParseSide: unknown side %q", s)
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Payer {
		return Receiver
	}
	return Payer
}

func (s Side) valid() bool {
	return s == Payer || s == Receiver
}
