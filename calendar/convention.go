package calendar

import (
	"fmt"
	"strings"
)

// BusinessDayConvention selects how a date falling on a holiday is rolled.
type BusinessDayConvention string

const (
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODIFIED_PRECEDING"
	Unadjusted        BusinessDayConvention = "UNADJUSTED"
)

// ParseBusinessDayConvention accepts the constant names as well as the
// common short forms (F, MF, P, MP, U).
func ParseBusinessDayConvention(s string) (BusinessDayConvention, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FOLLOWING":
		return Following, nil
	case "MF", "MODIFIED_FOLLOWING", "MODFOLLOWING":
		return ModifiedFollowing, nil
	case "P", "PRECEDING":
		return Preceding, nil
	case "MP", "MODIFIED_PRECEDING":
		return ModifiedPreceding, nil
	case "U", "NONE", "UNADJUSTED":
		return Unadjusted, nil
	}
	return "", fmt.Errorf("ParseBusinessDayConvention: unknown convention %q", s)
}
