package store

import "strings"

// Key layout. Everything a user owns shares the "rec:<userID>:" prefix so a
// single prefix scan covers one user's history.
//
//	rec:<userID>:<date>#<recordID>  -> TimeRecord JSON
//	active:<userID>                 -> sort key ("<date>#<recordID>") of the running record
//	user:<userID>                   -> User JSON
//	user:idx:email:<email>          -> userID
const (
	recordKeyPrefix = "rec:"
	activeKeyPrefix = "active:"
	userKeyPrefix   = "user:"
	userEmailPrefix = "user:idx:email:"

	// sortKeySep separates the date segment from the record ID. It sorts
	// below '0'..'9' in ASCII, so "<date>#..." keys for a given date stay
	// contiguous and below any longer date string.
	sortKeySep = "#"
)

// recordSortKey builds the within-partition portion of a record key. The
// date comes first so lexicographic order equals calendar order.
func recordSortKey(date, id string) string {
	return date + sortKeySep + id
}

// recordKey builds the full key for a record.
func recordKey(userID, date, id string) []byte {
	return []byte(recordKeyPrefix + userID + ":" + recordSortKey(date, id))
}

// recordKeyFromSort builds the full key from a stored sort key.
func recordKeyFromSort(userID, sortKey string) []byte {
	return []byte(recordKeyPrefix + userID + ":" + sortKey)
}

// recordPrefix is the common prefix of all record keys for a user.
func recordPrefix(userID string) []byte {
	return []byte(recordKeyPrefix + userID + ":")
}

// splitSortKey returns the date and ID segments of a sort key.
func splitSortKey(sortKey string) (date, id string) {
	date, id, _ = strings.Cut(sortKey, sortKeySep)
	return date, id
}

// activeKey is the pointer to a user's running record.
func activeKey(userID string) []byte {
	return []byte(activeKeyPrefix + userID)
}

// userKey addresses a user by ID.
func userKey(id string) []byte {
	return []byte(userKeyPrefix + id)
}

// userEmailKey addresses the email uniqueness index.
func userEmailKey(email string) []byte {
	return []byte(userEmailPrefix + normalizeEmail(email))
}

// normalizeEmail lowercases and trims an email for index lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
