package fake

import "time"

// DefaultMaxCollectionSize bounds generated slices and maps when Config leaves it unset.
const DefaultMaxCollectionSize = 3

// DefaultTimestampFields are the struct fields filled by Faker.Timestamp.
var DefaultTimestampFields = []string{"CreatedOn"}

// Config describes a Faker. It is copied by New and never read again.
type Config struct {
	// Observer is notified of every generated value, nested ones included.
	Observer Observer

	// TimestampFields names the time.Time fields generated in the default zone.
	// Nil means DefaultTimestampFields.
	TimestampFields []string

	// Overrides run after generation, one per type.
	Overrides []Override

	// DefaultTimezoneOffset is the UTC offset of generated timestamps.
	DefaultTimezoneOffset time.Duration

	// RecursiveDepth is how many times a type may reappear below itself while
	// the generator walks a graph. Zero stops every cycle at its first repeat.
	RecursiveDepth uint

	// MaxCollectionSize bounds generated slices and maps. Zero means DefaultMaxCollectionSize.
	MaxCollectionSize uint
}

// LocalOffset returns the current UTC offset of the process's local zone.
func LocalOffset() time.Duration {
	_, offset := time.Now().Zone()
	return time.Duration(offset) * time.Second
}

// Observer receives the name of each generated type.
type Observer interface {
	ObserveGenerated(entity string)
}
