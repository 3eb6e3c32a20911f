package model

// Property names shared by the user, push and entity servers.
const (
	PropertyFriends       = "Friends"
	PropertyStatus        = "Status"
	PropertyUpdates       = "Updates"
	PropertyPassword      = "Password"
	PropertyDataPartition = "DataPartition"
	PropertyDataRow       = "DataRow"
	PropertyToken         = "token"
)

// AuthPartition is the AuthTable partition holding every login binding.
const AuthPartition = "Userid"

type Properties map[string]string

type RecordKey struct {
	Table     string
	Partition string
	Row       string
}

type Record struct {
	RecordKey
	Properties Properties
	ETag       string
}

func (r *Record) Get(name string) string {
	if r == nil || r.Properties == nil {
		return ""
	}
	return r.Properties[name]
}
