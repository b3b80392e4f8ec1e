package reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tokenLength = 5

// NewNumber mints a reservation number: prefix, the creation instant in
// milliseconds and a short random token. It is practically unique, not
// guaranteed; the unique index on the column has the last word.
func NewNumber(prefix string, now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:tokenLength]
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), token)
}
