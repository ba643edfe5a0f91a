package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProtocolStatus is persisted as its integer value.
type ProtocolStatus int

const (
	StatusOpen ProtocolStatus = iota
	StatusSentForReview
	StatusReceived
	StatusUnderReview
	StatusApproved
	StatusRejected
	StatusCorrectionRequested
	StatusFinalized
)

// UnknownStatusRank sorts unknown statuses last.
const UnknownStatusRank = 99

var statusNames = [...]string{
	StatusOpen:                "Open",
	StatusSentForReview:       "SentForReview",
	StatusReceived:            "Received",
	StatusUnderReview:         "UnderReview",
	StatusApproved:            "Approved",
	StatusRejected:            "Rejected",
	StatusCorrectionRequested: "CorrectionRequested",
	StatusFinalized:           "Finalized",
}

// statusRanks is the workflow order used by the listing default sort.
var statusRanks = map[ProtocolStatus]int{
	StatusOpen:                1,
	StatusSentForReview:       2,
	StatusReceived:            3,
	StatusUnderReview:         4,
	StatusCorrectionRequested: 5,
	StatusApproved:            6,
	StatusRejected:            7,
	StatusFinalized:           8,
}

func (s ProtocolStatus) Valid() bool {
	return s >= StatusOpen && s <= StatusFinalized
}

func (s ProtocolStatus) String() string {
	if !s.Valid() {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// Rank returns the workflow position of s, UnknownStatusRank when s is unknown.
func (s ProtocolStatus) Rank() int {
	if r, ok := statusRanks[s]; ok {
		return r
	}
	return UnknownStatusRank
}

// StatusRankSQL returns a CASE expression ranking column like Rank does.
func StatusRankSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for s := StatusOpen; s <= StatusFinalized; s++ {
		fmt.Fprintf(&b, " WHEN %d THEN %d", int(s), s.Rank())
	}
	fmt.Fprintf(&b, " ELSE %d END", UnknownStatusRank)
	return b.String()
}

// ParseProtocolStatus accepts a status name (any case) or its number.
func ParseProtocolStatus(v string) (ProtocolStatus, error) {
	v = strings.TrimSpace(v)
	for i, name := range statusNames {
		if strings.EqualFold(name, v) {
			return ProtocolStatus(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && ProtocolStatus(n).Valid() {
		return ProtocolStatus(n), nil
	}
	return 0, fmt.Errorf("unknown protocol status %q", v)
}

func (s ProtocolStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ProtocolStatus) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*s = ProtocolStatus(v)
	case []byte:
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return err
		}
		*s = ProtocolStatus(n)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*s = ProtocolStatus(n)
	case nil:
		*s = StatusOpen
	default:
		return fmt.Errorf("cannot scan %T into ProtocolStatus", src)
	}
	return nil
}

func (s ProtocolStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ProtocolStatus) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = ProtocolStatus(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseProtocolStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
