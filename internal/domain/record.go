package domain

import "time"

const TimestampLayout = "2006-01-02 15:04:05"

// Record is one normalized row for one token and cycle.
type Record struct {
	Token       TokenTarget       `json:"token"`
	CollectedAt time.Time         `json:"collected_at"`
	Fields      map[string]string `json:"fields"`
}

// NewRecord starts an empty record. Unset columns read as Sentinel.
func NewRecord(token TokenTarget, at time.Time) Record {
	return Record{
		Token:       token,
		CollectedAt: at,
		Fields:      make(map[string]string, len(Header())),
	}
}

// Merge copies a fragment into the record.
func (r Record) Merge(fragment map[string]string) {
	for k, v := range fragment {
		r.Fields[k] = v
	}
}

// Value returns a column value, Sentinel when unset.
func (r Record) Value(column string) string {
	switch column {
	case ColTimestamp:
		return r.CollectedAt.Format(TimestampLayout)
	case ColToken:
		return string(r.Token)
	}
	if v, ok := r.Fields[column]; ok && v != "" {
		return v
	}
	return Sentinel
}

// Row renders the record in Header order.
func (r Record) Row() []string {
	header := Header()
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = r.Value(col)
	}
	return row
}
