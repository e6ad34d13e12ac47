package models

import "time"

// DisplayTimeLayout is the layout used for "last updated" labels.
const DisplayTimeLayout = "02 Jan 2006, 15:04 PM"

// RemoteFile is a file entry from the remote store.
type RemoteFile struct {
	// Name is the file name.
	Name string `json:"name"`
	// ID is the store-specific file identifier.
	ID string `json:"id"`
	// ModifiedTime is the last modification time (UTC).
	ModifiedTime time.Time `json:"modified_time"`
}

// LastUpdated formats ModifiedTime in loc. A nil loc means UTC.
func (f RemoteFile) LastUpdated(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return f.ModifiedTime.In(loc).Format(DisplayTimeLayout)
}
