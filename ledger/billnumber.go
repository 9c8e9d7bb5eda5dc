/*
billnumber.go - Monthly bill-number sequence

PURPOSE:
  Derives the next human-readable invoice number from the ledger contents.
  Bill numbers are "YYYYMM" + a 4-digit sequence that resets each calendar
  month: 2026030001, 2026030002, ...

ALGORITHM:
  1. prefix = year + zero-padded month of the effective date
  2. Scan every record whose bill number starts with the prefix
  3. Parse the trailing digits as the sequence; take the maximum
  4. Next number = prefix + (max+1) zero-padded to 4 digits

MALFORMED INPUT:
  A record whose suffix does not parse as an integer contributes 0 to the
  max instead of aborting the scan. Legacy rows with no bill number at all
  are skipped the same way.

LIMITATION:
  The sequence field is fixed at 4 digits. Past 9999 within one month the
  number widens rather than wrapping, which breaks the fixed-width format.
  This is a documented limitation, not silently corrected.

SEE ALSO:
  - recorder.go: Calls this inside the store's critical section
*/
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// BILL NUMBER DERIVATION
// =============================================================================

// billPrefixFormat renders an effective date as the 6-character YYYYMM prefix.
const billPrefixFormat = "200601"

// sequenceWidth is the zero-padded width of the monthly sequence.
const sequenceWidth = 4

// BillPrefix returns the "YYYYMM" prefix for an effective date.
func BillPrefix(effective time.Time) string {
	return effective.Format(billPrefixFormat)
}

// NextBillNumber derives the next bill number for the given effective date
// from the full ledger contents.
//
// The caller must hold the store's critical section between reading the
// records and appending the resulting record, or two sales can receive the
// same number.
func NextBillNumber(effective time.Time, records []Record) string {
	prefix := BillPrefix(effective)

	max := 0
	for _, rec := range records {
		seq := sequenceOf(rec.BillNumber, prefix)
		if seq > max {
			max = seq
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, sequenceWidth, max+1)
}

// sequenceOf extracts the numeric sequence of a bill number under the given
// month prefix. Records from other months, legacy rows without a bill
// number, and malformed suffixes all contribute 0.
func sequenceOf(billNumber, prefix string) int {
	if !strings.HasPrefix(billNumber, prefix) {
		return 0
	}
	suffix := billNumber[len(prefix):]
	if suffix == "" {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SplitBillNumber separates a well-formed bill number into its month prefix
// and sequence. ok is false for legacy or malformed values.
func SplitBillNumber(billNumber string) (prefix string, seq int, ok bool) {
	if len(billNumber) < len(billPrefixFormat)+1 {
		return "", 0, false
	}
	prefix = billNumber[:len(billPrefixFormat)]
	if _, err := time.Parse(billPrefixFormat, prefix); err != nil {
		return "", 0, false
	}
	seq, err := strconv.Atoi(billNumber[len(billPrefixFormat):])
	if err != nil || seq < 0 {
		return "", 0, false
	}
	return prefix, seq, true
}
