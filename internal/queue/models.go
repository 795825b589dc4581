package queue

import "time"

// Status describes where a quarantine item sits in the pipeline.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDecoding  Status = "decoding"
	StatusDecoded   Status = "decoded"
	StatusFailed    Status = "failed"
	StatusCommitted Status = "committed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDecoding, StatusDecoded, StatusFailed, StatusCommitted:
		return true
	}
	return false
}

// Item is one quarantine container tracked by the ledger. Hash is the
// container's stem and uniquely identifies the item across runs.
type Item struct {
	ID            int64
	Hash          string
	ContainerPath string
	WorkDir       string
	BlobPath      string
	BlobSize      int64
	Status        Status
	FinalName     string
	ErrorMessage  string
	SessionID     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
