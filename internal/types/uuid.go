package types

import (
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// UUID prefixes for entity identifiers
const (
	UUIDPrefixInvoice         = "inv"
	UUIDPrefixInvoiceLineItem = "li"
	UUIDPrefixAdjustment      = "adj"
	UUIDPrefixPayment         = "pay"
	UUIDPrefixClient          = "cli"
	UUIDPrefixTrip            = "trip"
	UUIDPrefixSetting         = "set"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortID returns a short human-friendly identifier, used for
// payment references when the caller does not supply one.
func GenerateShortID() string {
	once.Do(initializeSID)
	id, err := sidGenerator.Generate()
	if err != nil {
		return GenerateUUID()
	}
	return id
}
